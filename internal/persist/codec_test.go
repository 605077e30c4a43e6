package persist_test

import (
	"bytes"
	"slices"
	"testing"

	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/persist"
	"audiomate/internal/testsupport"
)

func newRegistry() *collection.Registry {
	return collection.NewRegistry(collection.Options{
		DefaultReceiverAtom: "Person",
		DefaultReceiverNode: "HeadAudioSource",
		DefaultPlayChance:   1,
	})
}

func memberIDs(c *collection.Collection) []string {
	var ids []string
	for _, member := range c.Members() {
		ids = append(ids, member.SourceID())
	}
	return ids
}

func TestRoundTripSkipsEmptyCollections(t *testing.T) {
	assets := testsupport.NewStaticAssets("a.wav", "b.wav", "c.wav")
	src := newRegistry()
	src.Init()

	full := src.Add("Ambient")
	for _, asset := range assets.Assets {
		full.Add(clip.New(asset))
	}
	full.SetShuffle(false)
	full.SetAlwaysQueue(true)
	full.SetPlayChance(0.25)
	full.SetReceiverTarget("Radio", "AudioSource")
	full.SetLastPlayedIndex(1)

	data, err := persist.Snapshot(src)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	dst := newRegistry()
	dst.Init()
	if n := persist.Restore(data, dst, persist.Deps{Assets: assets}); n != 1 {
		t.Fatalf("restored %d collections, want 1", n)
	}
	if got := dst.Names(); !slices.Equal(got, []string{"Ambient"}) {
		t.Fatalf("names = %v, want [Ambient]", got)
	}
	got := dst.Active()
	if got == nil || got.Name() != "Ambient" {
		t.Fatalf("active = %v, want Ambient", got)
	}
	if ids := memberIDs(got); !slices.Equal(ids, []string{"a.wav", "b.wav", "c.wav"}) {
		t.Fatalf("clips = %v", ids)
	}
	if got.Shuffle() || !got.AlwaysQueue() || got.OnlyIfClear() || !got.Enabled() {
		t.Fatalf("flags not restored: shuffle=%v always=%v clear=%v enabled=%v",
			got.Shuffle(), got.AlwaysQueue(), got.OnlyIfClear(), got.Enabled())
	}
	if got.PlayChance() != 0.25 {
		t.Fatalf("play chance = %v, want 0.25", got.PlayChance())
	}
	if got.ReceiverAtomID() != "Radio" || got.ReceiverNodeID() != "AudioSource" {
		t.Fatalf("receiver = %s/%s", got.ReceiverAtomID(), got.ReceiverNodeID())
	}
	if got.LastPlayedIndex() != 1 {
		t.Fatalf("last index = %d, want 1", got.LastPlayedIndex())
	}
}

func TestRestoreAcceptsLegacyValues(t *testing.T) {
	assets := testsupport.NewStaticAssets("a.wav", "b.wav")
	doc := []byte(`{"Collections": {
		"Old": {
			"name": "Old",
			"enabled": "True",
			"receiverAtom": "",
			"receiverNode": "",
			"shuffle": "false",
			"alwaysQueue": "0",
			"onlyIfClear": "true",
			"playChance": "0.5",
			"clips": [{"sourceClipUID": "a.wav"}, {"sourceClip": "missing.wav"}, {"sourceClip": "b.wav"}]
		}
	}}`)

	reg := newRegistry()
	if n := persist.Restore(doc, reg, persist.Deps{Assets: assets}); n != 1 {
		t.Fatalf("restored %d, want 1", n)
	}
	c := reg.Get("Old")
	if c == nil {
		t.Fatalf("collection Old missing: %v", reg.Names())
	}
	if !c.Enabled() || c.Shuffle() || c.AlwaysQueue() || !c.OnlyIfClear() {
		t.Fatalf("flags = enabled:%v shuffle:%v always:%v clear:%v", c.Enabled(), c.Shuffle(), c.AlwaysQueue(), c.OnlyIfClear())
	}
	if c.PlayChance() != 0.5 {
		t.Fatalf("play chance = %v", c.PlayChance())
	}
	if c.ReceiverAtomID() != "Person" || c.ReceiverNodeID() != "HeadAudioSource" {
		t.Fatalf("empty receiver should keep defaults, got %s/%s", c.ReceiverAtomID(), c.ReceiverNodeID())
	}
	if ids := memberIDs(c); !slices.Equal(ids, []string{"a.wav", "b.wav"}) {
		t.Fatalf("clips = %v, want unresolved clip dropped", ids)
	}
	if c.LastPlayedIndex() != clip.NoIndex {
		t.Fatalf("absent last index should decode to %d, got %d", clip.NoIndex, c.LastPlayedIndex())
	}
}

func TestRestoreDefaultsMistypedFields(t *testing.T) {
	assets := testsupport.NewStaticAssets("x.wav")
	doc := []byte(`{"Collections": {
		"A": {"name": "A", "enabled": true, "receiverAtom": 7, "clips": [{"sourceClip": "x.wav"}, 3]},
		"B": {"name": 5, "receiverNode": {"nested": true}, "playChance": [1], "clips": {}},
		"C": {"name": null, "shuffle": {}, "clips": "x.wav"}
	}}`)

	reg := newRegistry()
	if n := persist.Restore(doc, reg, persist.Deps{Assets: assets}); n != 3 {
		t.Fatalf("restored %d, want 3 (names %v)", n, reg.Names())
	}
	if got := reg.Names(); !slices.Equal(got, []string{"A", "5", "C"}) {
		t.Fatalf("names = %v", got)
	}

	a := reg.Get("A")
	if !a.Enabled() || a.ReceiverAtomID() != "7" {
		t.Fatalf("A enabled=%v atom=%q", a.Enabled(), a.ReceiverAtomID())
	}
	if ids := memberIDs(a); !slices.Equal(ids, []string{"x.wav"}) {
		t.Fatalf("A clips = %v", ids)
	}

	b := reg.Get("5")
	if b.ReceiverNodeID() != "HeadAudioSource" || b.PlayChance() != 0 || b.Len() != 0 {
		t.Fatalf("B node=%q chance=%v len=%d", b.ReceiverNodeID(), b.PlayChance(), b.Len())
	}
	if c := reg.Get("C"); c.Shuffle() || c.Len() != 0 {
		t.Fatalf("C shuffle=%v len=%d", c.Shuffle(), c.Len())
	}
}

func TestRestoreLeavesStateOnBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "missing tree", doc: `{"Other": {}}`},
		{name: "null tree", doc: `{"Collections": null}`},
		{name: "empty tree", doc: `{"Collections": {}}`},
		{name: "tree is not an object", doc: `{"Collections": "nope"}`},
		{name: "malformed json", doc: `{"Collections": {`},
		{name: "only malformed children", doc: `{"Collections": {"A": 3, "B": "x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry()
			reg.Init()
			reg.Add("Keep")
			if n := persist.Restore([]byte(tt.doc), reg, persist.Deps{}); n != 0 {
				t.Fatalf("restored %d, want 0", n)
			}
			if got := reg.Names(); !slices.Equal(got, []string{"Untitled", "Keep"}) {
				t.Fatalf("names = %v, state should be untouched", got)
			}
		})
	}
}

func TestRestoreReplacesStateAndKeepsOrder(t *testing.T) {
	assets := testsupport.NewStaticAssets("a.wav")
	doc := []byte(`{"Collections": {
		"Zeta": {"name": "Zeta", "enabled": true, "playChance": 1, "clips": [{"sourceClip": "a.wav"}]},
		"Alpha": {"name": "", "enabled": true, "playChance": 1, "lastClipIndex": 0, "clips": [{"sourceClip": "a.wav"}]},
		"Dup": {"name": "Zeta", "enabled": false, "playChance": 1, "clips": [{"sourceClip": "a.wav"}]},
		"Bad": 7
	}}`)
	reg := newRegistry()
	reg.Init()
	reg.Add("Old")

	var removed []string
	reg.OnCollectionRemoved(func(ev collection.CollectionRemoved) { removed = append(removed, ev.Name) })

	if n := persist.Restore(doc, reg, persist.Deps{Assets: assets}); n != 3 {
		t.Fatalf("restored %d, want 3", n)
	}
	if got := reg.Names(); !slices.Equal(got, []string{"Zeta", "Alpha", "Untitled"}) {
		t.Fatalf("names = %v", got)
	}
	if !slices.Equal(removed, []string{"Untitled", "Old"}) {
		t.Fatalf("removed = %v", removed)
	}
	if reg.Active().Name() != "Zeta" {
		t.Fatalf("first stored collection should be active, got %s", reg.Active().Name())
	}
	if reg.Get("Alpha").LastPlayedIndex() != 0 {
		t.Fatalf("lastClipIndex 0 should survive")
	}
}

func TestSnapshotPreservesRegistryOrder(t *testing.T) {
	reg := newRegistry()
	assets := testsupport.NewStaticAssets("a.wav")
	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		c := reg.Add(name)
		c.Add(clip.New(assets.Assets[0]))
	}
	data, err := persist.Snapshot(reg)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	z := bytes.Index(data, []byte(`"Zulu"`))
	a := bytes.Index(data, []byte(`"Alpha"`))
	m := bytes.Index(data, []byte(`"Mike"`))
	if z < 0 || a < 0 || m < 0 || z >= a || a >= m {
		t.Fatalf("keys out of order in %s", data)
	}
	if !bytes.Contains(data, []byte(`"sourceClip": "a.wav"`)) {
		t.Fatalf("clip reference missing from %s", data)
	}
}

func TestLayoutRestoresEmptyCollectionsInOrder(t *testing.T) {
	assets := testsupport.NewStaticAssets("a.wav")
	src := newRegistry()
	src.Init()
	src.RenameActive("Lead")
	src.Add("Moans").SetAlwaysQueue(true)
	src.Add("Filled").Add(clip.New(assets.Assets[0]))
	src.Add("Tail")

	doc, err := persist.Snapshot(src)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	layout, err := persist.SnapshotLayout(src)
	if err != nil {
		t.Fatalf("snapshot layout: %v", err)
	}

	dst := newRegistry()
	dst.Init()
	persist.Restore(doc, dst, persist.Deps{Assets: assets})
	if n := persist.RestoreLayout(layout, dst, persist.Deps{Assets: assets}); n != 3 {
		t.Fatalf("re-created %d empty collections, want 3", n)
	}
	if got := dst.Names(); !slices.Equal(got, []string{"Lead", "Moans", "Filled", "Tail"}) {
		t.Fatalf("names = %v", got)
	}
	if !dst.Get("Moans").AlwaysQueue() {
		t.Fatal("empty collection settings should be restored")
	}
	if ids := memberIDs(dst.Get("Filled")); !slices.Equal(ids, []string{"a.wav"}) {
		t.Fatalf("Filled clips = %v", ids)
	}
}

func TestLayoutIgnoresMissingOrBadInput(t *testing.T) {
	for _, data := range []string{"", "  ", "[1,2]", `{"order": "x"}`} {
		reg := newRegistry()
		reg.Init()
		reg.Add("Keep")
		if n := persist.RestoreLayout([]byte(data), reg, persist.Deps{}); n != 0 {
			t.Fatalf("RestoreLayout(%q) = %d", data, n)
		}
		if got := reg.Names(); !slices.Equal(got, []string{"Untitled", "Keep"}) {
			t.Fatalf("RestoreLayout(%q) changed names to %v", data, got)
		}
	}
}
