package library_test

import (
	"slices"
	"testing"

	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/library"
	"audiomate/internal/testsupport"
)

func newLibrary(t *testing.T, ids ...string) (*library.Library, *collection.Registry, *testsupport.StaticAssets) {
	t.Helper()
	assets := testsupport.NewStaticAssets(ids...)
	reg := collection.NewRegistry(collection.Options{DefaultPlayChance: 1})
	lib := library.New(assets, "web", reg, nil)
	lib.Attach()
	reg.Init()
	return lib, reg, assets
}

func sourceIDs(clips []*clip.Clip) []string {
	out := make([]string, 0, len(clips))
	for _, cl := range clips {
		out = append(out, cl.SourceID())
	}
	return out
}

func TestRefreshWaitsForCatalog(t *testing.T) {
	lib, _, assets := newLibrary(t, "a.wav")
	assets.NotReady = true
	if _, _, ready := lib.Refresh(); ready {
		t.Fatal("refresh should report not ready")
	}
	if lib.Len() != 0 {
		t.Fatalf("library should stay empty, got %d", lib.Len())
	}
	assets.NotReady = false
	added, removed, ready := lib.Refresh()
	if !ready || added != 1 || removed != 0 {
		t.Fatalf("refresh = %d/%d/%v", added, removed, ready)
	}
}

func TestRefreshPurgesOrphansEverywhere(t *testing.T) {
	lib, reg, assets := newLibrary(t, "a.wav", "b.wav", "c.wav")
	lib.Refresh()
	lib.AddAll()
	other := reg.Add("Other")
	b, _ := lib.Get("b.wav")
	other.Add(b)

	assets.Drop("b.wav")
	_, removed, _ := lib.Refresh()
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got := sourceIDs(lib.Clips()); !slices.Equal(got, []string{"a.wav", "c.wav"}) {
		t.Fatalf("library = %v", got)
	}
	for _, c := range reg.Collections() {
		if _, ok := c.Find("b.wav"); ok {
			t.Fatalf("collection %s still references the orphan", c.Name())
		}
	}
	if _, ok := lib.Get("b.wav"); ok {
		t.Fatal("orphan should be gone from the index")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	lib, _, _ := newLibrary(t, "a.wav", "b.wav")
	lib.Refresh()
	first := lib.Clips()
	added, removed, _ := lib.Refresh()
	if added != 0 || removed != 0 {
		t.Fatalf("second refresh changed %d/%d", added, removed)
	}
	if got := lib.Clips(); got[0] != first[0] || got[1] != first[1] {
		t.Fatal("refresh should keep existing clip identities")
	}
}

func TestToggleFollowsActiveCollection(t *testing.T) {
	lib, reg, _ := newLibrary(t, "a.wav", "b.wav")
	lib.Refresh()

	member, ok := lib.Toggle("b.wav")
	if !ok || !member {
		t.Fatalf("toggle = %v/%v, want member", member, ok)
	}
	b, _ := lib.Get("b.wav")
	if !b.InActiveCollection() || !b.HasCursor() {
		t.Fatalf("flags: in=%v cursor=%v", b.InActiveCollection(), b.HasCursor())
	}
	if lib.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", lib.Cursor())
	}

	reg.Add("Second")
	if b.InActiveCollection() {
		t.Fatal("selecting another collection should clear the flag")
	}
	reg.Select("Untitled")
	if !b.InActiveCollection() {
		t.Fatal("selecting back should restore the flag")
	}

	member, ok = lib.Toggle("b.wav")
	if !ok || member {
		t.Fatalf("second toggle = %v/%v, want removed", member, ok)
	}
	if reg.Active().Len() != 0 {
		t.Fatalf("active holds %d clips", reg.Active().Len())
	}
	if _, ok := lib.Toggle("missing.wav"); ok {
		t.Fatal("unknown clip should not toggle")
	}
}

func TestAddRangeIsInclusiveFromCursor(t *testing.T) {
	ids := make([]string, 0, 30)
	for i := range 30 {
		ids = append(ids, string(rune('a'+i%26))+string(rune('0'+i/26))+".wav")
	}
	lib, reg, _ := newLibrary(t, ids...)
	lib.Refresh()

	if n := lib.AddRange(10); n != 11 {
		t.Fatalf("added %d, want 11", n)
	}
	if lib.Cursor() != 10 {
		t.Fatalf("cursor = %d, want 10", lib.Cursor())
	}
	if n := lib.AddRange(20); n != 19 {
		t.Fatalf("added %d, want 19 new clips up to the end", n)
	}
	if lib.Cursor() != 29 {
		t.Fatalf("cursor = %d, want 29", lib.Cursor())
	}
	if reg.Active().Len() != 30 {
		t.Fatalf("active holds %d", reg.Active().Len())
	}
}

func TestAddAllRaisesSingleUpdate(t *testing.T) {
	lib, reg, _ := newLibrary(t, "a.wav", "b.wav", "c.wav")
	lib.Refresh()
	updates := 0
	reg.OnActiveCollectionUpdated(func(collection.ActiveCollectionUpdated) { updates++ })
	if n := lib.AddAll(); n != 3 {
		t.Fatalf("added %d", n)
	}
	if updates != 1 {
		t.Fatalf("updates = %d, want 1", updates)
	}
	for _, cl := range lib.Clips() {
		if !cl.InActiveCollection() {
			t.Fatalf("%s flag not refreshed", cl.SourceID())
		}
	}
}
