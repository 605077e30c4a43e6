package collection_test

import (
	"slices"
	"testing"

	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/host"
)

func newRegistry(t *testing.T) (*collection.Registry, *host.Scene) {
	t.Helper()
	scene, _ := newScene(t)
	reg := collection.NewRegistry(collection.Options{
		Atoms:               scene,
		DefaultReceiverAtom: "Person",
		DefaultReceiverNode: "HeadAudioSource",
		DefaultPlayChance:   1,
	})
	return reg, scene
}

func TestInitCreatesDefaultCollection(t *testing.T) {
	reg, _ := newRegistry(t)
	var selected []collection.ActiveCollectionSelected
	reg.OnActiveCollectionSelected(func(ev collection.ActiveCollectionSelected) { selected = append(selected, ev) })

	reg.Init()
	reg.Init()

	if got := reg.Names(); !slices.Equal(got, []string{"Untitled"}) {
		t.Fatalf("names = %v, want [Untitled]", got)
	}
	active := reg.Active()
	if active == nil || active.Name() != "Untitled" {
		t.Fatalf("active = %v, want Untitled", active)
	}
	if _, ok := active.Receiver(); !ok {
		t.Fatal("selection should resolve the receiver")
	}
	if len(selected) != 1 || selected[0].Before != nil || selected[0].After != active {
		t.Fatalf("unexpected selection events: %+v", selected)
	}
	if active.PlayChance() != 1 {
		t.Fatalf("play chance = %v, want registry default 1", active.PlayChance())
	}
}

func TestAddGeneratesDefaultNames(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.Add("")
	reg.Add("")
	if got := reg.Names(); !slices.Equal(got, []string{"Untitled", "Untitled2", "Untitled3"}) {
		t.Fatalf("names = %v", got)
	}
	if reg.Active().Name() != "Untitled3" {
		t.Fatalf("newest collection should be active, got %s", reg.Active().Name())
	}

	reg.Remove("Untitled2")
	reg.Add("")
	if got := reg.Names(); !slices.Equal(got, []string{"Untitled", "Untitled3", "Untitled2"}) {
		t.Fatalf("freed default name should be reused, got %v", got)
	}

	if reg.Add("Untitled") != nil {
		t.Fatal("explicit duplicate name should be rejected")
	}
	if c := reg.Add("  Ambient "); c == nil || c.Name() != "Ambient" {
		t.Fatalf("explicit name should be trimmed and accepted, got %v", c)
	}
}

func TestRemoveReselectsNeighbour(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.Add("")
	reg.Add("")

	reg.Select("Untitled2")
	if !reg.RemoveActive() {
		t.Fatal("expected removal")
	}
	if reg.Active().Name() != "Untitled" {
		t.Fatalf("expected previous collection to become active, got %s", reg.Active().Name())
	}

	if !reg.Remove("Untitled") {
		t.Fatal("expected removal of first collection")
	}
	if reg.Active().Name() != "Untitled3" {
		t.Fatalf("removing the first collection should select the last, got %s", reg.Active().Name())
	}

	reg.Add("Other")
	reg.Select("Untitled3")
	reg.Remove("Other")
	if reg.Active().Name() != "Untitled3" {
		t.Fatalf("removing an inactive collection must keep the active one, got %s", reg.Active().Name())
	}
	if reg.Remove("missing") {
		t.Fatal("removing an unknown collection should report false")
	}
}

func TestRemovingOnlyCollectionCreatesDefault(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.RenameActive("Ambient")

	var removed []string
	var added []string
	reg.OnCollectionRemoved(func(ev collection.CollectionRemoved) { removed = append(removed, ev.Name) })
	reg.OnCollectionAdded(func(ev collection.CollectionAdded) { added = append(added, ev.Name) })

	if !reg.Remove("Ambient") {
		t.Fatal("expected removal")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry should hold exactly one collection, got %d", reg.Len())
	}
	if reg.Active() == nil || reg.Active().Name() != "Untitled" {
		t.Fatalf("new default should be active, got %v", reg.Active())
	}
	if !slices.Equal(removed, []string{"Ambient"}) || !slices.Equal(added, []string{"Untitled"}) {
		t.Fatalf("events removed=%v added=%v", removed, added)
	}
}

func TestRenameActive(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.RenameActive("Ambient")
	id := reg.Active().ID()
	reg.Add("Other")
	reg.Select("Ambient")

	var changes []collection.ActiveCollectionNameChanged
	reg.OnActiveCollectionNameChanged(func(ev collection.ActiveCollectionNameChanged) { changes = append(changes, ev) })

	if reg.RenameActive("") || reg.RenameActive("Ambient") || reg.RenameActive("Other") {
		t.Fatal("empty, unchanged, and duplicate names must be ignored")
	}
	if !reg.RenameActive("Ambient2") {
		t.Fatal("expected rename")
	}
	if got := reg.Names(); !slices.Equal(got, []string{"Ambient2", "Other"}) {
		t.Fatalf("choice list = %v", got)
	}
	if len(changes) != 1 || changes[0] != (collection.ActiveCollectionNameChanged{Before: "Ambient", After: "Ambient2"}) {
		t.Fatalf("unexpected rename events: %+v", changes)
	}
	if reg.Active().ID() != id {
		t.Fatal("rename must keep the stable id")
	}
}

func TestSelectIsNoOpForActive(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	count := 0
	reg.OnActiveCollectionSelected(func(collection.ActiveCollectionSelected) { count++ })
	reg.Select("Untitled")
	if count != 0 {
		t.Fatalf("selecting the active collection raised %d events", count)
	}
	if reg.Select("missing") {
		t.Fatal("selecting an unknown collection should fail")
	}
}

func TestEventsAreDeliveredInOrder(t *testing.T) {
	reg, _ := newRegistry(t)
	var log []string
	reg.OnCollectionAdded(func(ev collection.CollectionAdded) { log = append(log, "added:"+ev.Name) })
	reg.OnActiveCollectionSelected(func(ev collection.ActiveCollectionSelected) { log = append(log, "selected:"+ev.After.Name()) })
	reg.OnCollectionRemoved(func(ev collection.CollectionRemoved) { log = append(log, "removed:"+ev.Name) })

	reg.Init()
	reg.Add("B")
	reg.RemoveActive()

	want := []string{
		"added:Untitled", "selected:Untitled",
		"added:B", "selected:B",
		"removed:B", "selected:Untitled",
	}
	if !slices.Equal(log, want) {
		t.Fatalf("events = %v, want %v", log, want)
	}
}

func TestOnAtomRenameRetargetsCollections(t *testing.T) {
	reg, scene := newRegistry(t)
	reg.Init()
	reg.Add("Other").SetReceiverTarget("Speaker", "AudioSource")

	if err := scene.RenameAtom("Person", "Alice"); err != nil {
		t.Fatalf("RenameAtom: %v", err)
	}
	reg.OnAtomRename("Person", "Alice")

	first := reg.Get("Untitled")
	if first.ReceiverAtomID() != "Alice" {
		t.Fatalf("receiver atom = %s, want Alice", first.ReceiverAtomID())
	}
	if _, ok := first.Receiver(); !ok {
		t.Fatal("renamed receiver should resolve")
	}
	if reg.Get("Other").ReceiverAtomID() != "Speaker" {
		t.Fatal("unrelated collection should keep its receiver atom")
	}
}

func TestBulkOperations(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.Add("B")

	reg.DisableAll()
	for _, c := range reg.Collections() {
		if c.Enabled() {
			t.Fatalf("%s should be disabled", c.Name())
		}
	}
	reg.Enable("B")
	if !reg.Get("B").Enabled() || reg.Get("Untitled").Enabled() {
		t.Fatal("Enable should only touch the named collection")
	}
	reg.EnableAll()
	reg.Disable("Untitled")
	if reg.Get("Untitled").Enabled() || !reg.Get("B").Enabled() {
		t.Fatal("Disable should only touch the named collection")
	}

	updates := 0
	reg.OnActiveCollectionUpdated(func(collection.ActiveCollectionUpdated) { updates++ })
	a := clip.New(host.Asset{ID: "a"})
	b := clip.New(host.Asset{ID: "b"})
	if n := reg.AddClipsToActive(a, b, a); n != 2 {
		t.Fatalf("added %d clips, want 2", n)
	}
	if !reg.RemoveClipFromActive(a) || reg.RemoveClipFromActive(a) {
		t.Fatal("expected exactly one successful removal")
	}
	reg.Get("Untitled").Add(b)
	if n := reg.RemoveSourceEverywhere("b"); n != 2 {
		t.Fatalf("RemoveSourceEverywhere changed %d collections, want 2", n)
	}
	reg.ClearActive()
	if updates != 3 {
		t.Fatalf("updates = %d, want 3", updates)
	}
}

func TestResetRaisesRemovalEvents(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	reg.Add("B")
	var removed []string
	reg.OnCollectionRemoved(func(ev collection.CollectionRemoved) { removed = append(removed, ev.Name) })

	reg.Reset()
	if reg.Len() != 0 || reg.Active() != nil {
		t.Fatalf("reset left %d collections", reg.Len())
	}
	if !slices.Equal(removed, []string{"Untitled", "B"}) {
		t.Fatalf("removed = %v", removed)
	}
	reg.EnsureActive()
	if reg.Len() != 1 || reg.Active() == nil {
		t.Fatal("EnsureActive should restore a default collection")
	}
}

func TestAdoptRenamesDuplicates(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	dup := reg.NewCollection("Untitled")
	reg.Adopt(dup)
	if dup.Name() != "Untitled2" {
		t.Fatalf("duplicate adopted name = %s, want Untitled2", dup.Name())
	}
	if reg.Active() != dup {
		t.Fatal("adopted collection should become active")
	}
}

func TestCollidesIgnoresWhitespace(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	song := reg.Add("My Song")

	tests := []struct {
		name   string
		except *collection.Collection
		want   bool
	}{
		{name: "MySong", want: true},
		{name: " My  Song ", want: true},
		{name: "Untitled", want: true},
		{name: "Untitled 2", want: false},
		{name: "MySong", except: song, want: false},
	}
	for _, tt := range tests {
		if got := reg.Collides(tt.name, tt.except); got != tt.want {
			t.Fatalf("Collides(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if reg.Add("MySong") != nil {
		t.Fatal("whitespace variant should be rejected")
	}

	adopted := reg.Adopt(reg.NewCollection("My   Song"))
	if adopted.Name() != "Untitled2" {
		t.Fatalf("colliding adopt should get a default name, got %s", adopted.Name())
	}
}

func TestRemovingActiveReportsItAsBefore(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Init()
	first := reg.Active()
	second := reg.Add("Second")

	var selected []collection.ActiveCollectionSelected
	reg.OnActiveCollectionSelected(func(ev collection.ActiveCollectionSelected) { selected = append(selected, ev) })

	reg.Remove("Second")
	if len(selected) != 1 || selected[0].Before != second || selected[0].After != first {
		t.Fatalf("unexpected selection events: %+v", selected)
	}

	selected = nil
	reg.Remove(first.Name())
	if len(selected) != 1 || selected[0].Before != first || selected[0].After != reg.Active() {
		t.Fatalf("emptied registry should report the removed collection, got %+v", selected)
	}
}
