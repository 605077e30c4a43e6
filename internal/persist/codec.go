package persist

import (
	"log/slog"
	"strings"

	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/host"
	"audiomate/internal/logging"
)

// ClipInterner returns the shared clip for an asset so restored collections
// reference the same clips as the library.
type ClipInterner interface {
	Intern(asset host.Asset) *clip.Clip
}

// Deps are the collaborators used while decoding.
type Deps struct {
	Assets host.AssetLookup
	Clips  ClipInterner
	Logger *slog.Logger
}

// Encode captures every non-empty collection in registry order.
func Encode(reg *collection.Registry) Tree {
	var tree Tree
	for _, c := range reg.Collections() {
		if c == nil || c.Len() == 0 {
			continue
		}
		tree.Entries = append(tree.Entries, Entry{Key: c.Name(), Record: recordOf(c)})
	}
	return tree
}

func recordOf(c *collection.Collection) CollectionRecord {
	last := FlexInt(c.LastPlayedIndex())
	record := CollectionRecord{
		Name:          FlexString(c.Name()),
		Enabled:       FlexBool(c.Enabled()),
		ReceiverAtom:  FlexString(c.ReceiverAtomID()),
		ReceiverNode:  FlexString(c.ReceiverNodeID()),
		Shuffle:       FlexBool(c.Shuffle()),
		AlwaysQueue:   FlexBool(c.AlwaysQueue()),
		OnlyIfClear:   FlexBool(c.OnlyIfClear()),
		PlayChance:    FlexFloat(c.PlayChance()),
		LastClipIndex: &last,
	}
	for _, member := range c.Members() {
		record.Clips = append(record.Clips, ClipRecord{SourceClip: FlexString(member.SourceID())})
	}
	return record
}

// Decode replaces the registry contents with the collections in tree and
// returns how many were restored. An empty tree leaves the registry untouched.
// After a restore the first stored collection is active.
func Decode(tree Tree, reg *collection.Registry, deps Deps) int {
	logger := logging.NewComponentLogger(deps.Logger, "persist")
	if tree.Skipped > 0 {
		logging.WarnWithContext(logger, "skipped malformed collections", "persist_malformed",
			logging.Int("skipped", tree.Skipped),
			logging.String(logging.FieldErrorHint, "inspect the stored scene document"),
			logging.String(logging.FieldImpact, "those collections are not restored"),
		)
	}
	if tree.Empty() {
		logger.Info("nothing to restore")
		return 0
	}

	reg.Reset()
	var first *collection.Collection
	for _, entry := range tree.Entries {
		c := decodeCollection(entry, reg, deps, logger)
		adopted := reg.Adopt(c)
		if first == nil {
			first = adopted
		}
	}
	reg.SelectCollection(first)
	reg.EnsureActive()
	reg.SyncReceivers()
	logger.Info("collections restored", logging.Int("count", len(tree.Entries)))
	return len(tree.Entries)
}

func decodeCollection(entry Entry, reg *collection.Registry, deps Deps, logger *slog.Logger) *collection.Collection {
	rec := entry.Record
	name := strings.TrimSpace(string(rec.Name))
	if name == "" {
		name = strings.TrimSpace(entry.Key)
	}
	c := reg.NewCollection(name)
	c.SetEnabled(bool(rec.Enabled))
	c.SetShuffle(bool(rec.Shuffle))
	c.SetAlwaysQueue(bool(rec.AlwaysQueue))
	c.SetOnlyIfClear(bool(rec.OnlyIfClear))
	c.SetPlayChance(float64(rec.PlayChance))

	atom, node := c.ReceiverAtomID(), c.ReceiverNodeID()
	if v := strings.TrimSpace(string(rec.ReceiverAtom)); v != "" {
		atom = v
	}
	if v := strings.TrimSpace(string(rec.ReceiverNode)); v != "" {
		node = v
	}
	c.SetReceiverTarget(atom, node)

	dropped := 0
	for _, record := range rec.Clips {
		id := record.ID()
		if id == "" || deps.Assets == nil {
			dropped++
			continue
		}
		asset, ok := deps.Assets.Resolve(id)
		if !ok {
			dropped++
			continue
		}
		if deps.Clips != nil {
			c.Add(deps.Clips.Intern(asset))
		} else {
			c.Add(clip.New(asset))
		}
	}
	if dropped > 0 {
		logger.Info("dropped unresolved clips",
			logging.String(logging.FieldCollection, name),
			logging.Int("dropped", dropped),
		)
	}

	last := clip.NoIndex
	if rec.LastClipIndex != nil {
		last = int(*rec.LastClipIndex)
	}
	c.SetLastPlayedIndex(last)
	return c
}

// Restore parses a plugin document and decodes it into reg. Parse failures
// are logged and treated as nothing to restore.
func Restore(document []byte, reg *collection.Registry, deps Deps) int {
	tree, err := ParseDocument(document)
	if err != nil {
		logging.WarnWithContext(logging.NewComponentLogger(deps.Logger, "persist"), "invalid scene document", "persist_malformed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the stored scene document"),
			logging.String(logging.FieldImpact, "existing collections are kept"),
		)
		return 0
	}
	return Decode(tree, reg, deps)
}

// Snapshot encodes reg into a plugin document.
func Snapshot(reg *collection.Registry) ([]byte, error) {
	return MarshalDocument(Encode(reg))
}
