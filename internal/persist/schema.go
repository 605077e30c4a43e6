package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RootKey is the plugin document key holding the collections tree.
const RootKey = "Collections"

// ClipRecord references one clip by catalog id.
type ClipRecord struct {
	SourceClip FlexString `json:"sourceClip"`
	// LegacySourceClip is read from older documents only.
	LegacySourceClip FlexString `json:"sourceClipUID,omitempty"`
}

// ID returns the clip id, preferring the current key.
func (r ClipRecord) ID() string {
	if id := strings.TrimSpace(string(r.SourceClip)); id != "" {
		return id
	}
	return strings.TrimSpace(string(r.LegacySourceClip))
}

// CollectionRecord is the stored form of one collection. Every field decodes
// leniently, so a mistyped value falls back to its default instead of
// dropping the collection.
type CollectionRecord struct {
	Name          FlexString `json:"name"`
	Enabled       FlexBool   `json:"enabled"`
	ReceiverAtom  FlexString `json:"receiverAtom"`
	ReceiverNode  FlexString `json:"receiverNode"`
	Shuffle       FlexBool   `json:"shuffle"`
	AlwaysQueue   FlexBool   `json:"alwaysQueue"`
	OnlyIfClear   FlexBool   `json:"onlyIfClear"`
	PlayChance    FlexFloat  `json:"playChance"`
	LastClipIndex *FlexInt   `json:"lastClipIndex,omitempty"`
	Clips         ClipList   `json:"clips"`
}

// Entry is one keyed child of the tree.
type Entry struct {
	Key    string
	Record CollectionRecord
}

// Tree is the ordered collections object.
type Tree struct {
	Entries []Entry
	// Skipped counts children that were not JSON objects.
	Skipped int
}

// Empty reports whether the tree holds nothing to restore.
func (t Tree) Empty() bool { return len(t.Entries) == 0 }

// MarshalJSON writes the entries as a JSON object in order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range t.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Record)
		if err != nil {
			return nil, fmt.Errorf("encode collection %q: %w", entry.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. Non-object children
// are skipped and counted; fields inside an object never cause a skip.
func (t *Tree) UnmarshalJSON(data []byte) error {
	t.Entries = nil
	t.Skipped = 0
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			t.Skipped++
			continue
		}
		var record CollectionRecord
		if err := json.Unmarshal(trimmed, &record); err != nil {
			t.Skipped++
			continue
		}
		t.Entries = append(t.Entries, Entry{Key: key, Record: record})
	}
	_, err = dec.Token()
	return err
}

var errNotObject = errors.New("collections tree is not a JSON object")

// ParseDocument extracts the collections tree from a plugin document. A
// missing or null tree yields an empty Tree without error.
func ParseDocument(data []byte) (Tree, error) {
	var tree Tree
	if len(bytes.TrimSpace(data)) == 0 {
		return tree, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return tree, fmt.Errorf("decode plugin document: %w", err)
	}
	raw, ok := doc[RootKey]
	if !ok {
		return tree, nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return tree, nil
	}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return Tree{}, fmt.Errorf("decode %s tree: %w", RootKey, err)
	}
	return tree, nil
}

// MarshalDocument wraps a tree in a plugin document.
func MarshalDocument(tree Tree) ([]byte, error) {
	body, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(map[string]json.RawMessage{RootKey: body}, "", "  ")
}
