package actions_test

import (
	"slices"
	"testing"

	"audiomate/internal/actions"
	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/host"
	"audiomate/internal/testsupport"
)

type fixture struct {
	scene   *host.Scene
	rec     *testsupport.RecordingReceiver
	reg     *collection.Registry
	actions *actions.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	scene := host.NewScene("test")
	scene.AddAtom(host.AtomInfo{UID: "Person", Category: "People", Type: "Person"})
	rec := &testsupport.RecordingReceiver{}
	if err := scene.AttachReceiver("Person", "HeadAudioSource", rec); err != nil {
		t.Fatalf("AttachReceiver: %v", err)
	}
	reg := collection.NewRegistry(collection.Options{
		Atoms:               scene,
		DefaultReceiverAtom: "Person",
		DefaultReceiverNode: "HeadAudioSource",
		DefaultPlayChance:   1,
	})
	acts := actions.New(scene, reg, nil)
	acts.Attach(reg)
	acts.RegisterGlobal()
	reg.Init()
	return &fixture{scene: scene, rec: rec, reg: reg, actions: acts}
}

func TestActionNamesStripWhitespace(t *testing.T) {
	if got := actions.PlayActionName("Soft Moans 2"); got != "PlayRandomClipFromSoftMoans2" {
		t.Fatalf("PlayActionName = %q", got)
	}
	if got := actions.QueueActionName(" Rain\tDrops "); got != "QueueRandomClipFromRainDrops" {
		t.Fatalf("QueueActionName = %q", got)
	}
}

func TestCollectionLifecycleDrivesActions(t *testing.T) {
	f := newFixture(t)

	want := []string{
		"PlayRandomClipFromActiveCollection",
		"PlayRandomClipFromUntitled",
		"QueueRandomClipFromActiveCollection",
		"QueueRandomClipFromUntitled",
	}
	if got := f.scene.ActionNames(); !slices.Equal(got, want) {
		t.Fatalf("host actions = %v, want %v", got, want)
	}

	f.reg.Add("Rain Drops")
	if _, ok := f.actions.Binding("Rain Drops"); !ok {
		t.Fatal("expected binding for new collection")
	}
	if !slices.Contains(f.scene.ActionNames(), "PlayRandomClipFromRainDrops") {
		t.Fatalf("missing play action, got %v", f.scene.ActionNames())
	}

	f.reg.Remove("Rain Drops")
	if _, ok := f.actions.Binding("Rain Drops"); ok {
		t.Fatal("binding should be removed with its collection")
	}
	if slices.Contains(f.scene.ActionNames(), "QueueRandomClipFromRainDrops") {
		t.Fatal("queue action should be deregistered")
	}
	if !slices.Equal(f.actions.Names(), want) {
		t.Fatalf("registry names = %v, want %v", f.actions.Names(), want)
	}
}

func TestRenameRebindsActions(t *testing.T) {
	f := newFixture(t)
	f.reg.RenameActive("Ambient")
	before, _ := f.actions.Binding("Ambient")

	f.reg.RenameActive("Ambient2")

	if _, ok := f.actions.Binding("Ambient"); ok {
		t.Fatal("old binding should be gone")
	}
	after, ok := f.actions.Binding("Ambient2")
	if !ok {
		t.Fatal("expected binding under the new name")
	}
	if after.Play.ID == before.Play.ID {
		t.Fatal("rename must register fresh handles")
	}
	names := f.scene.ActionNames()
	if slices.Contains(names, "PlayRandomClipFromAmbient") || !slices.Contains(names, "PlayRandomClipFromAmbient2") {
		t.Fatalf("host actions not rebound: %v", names)
	}
}

func TestInvokingActionsPlaysFromCollection(t *testing.T) {
	f := newFixture(t)
	f.reg.RenameActive("Ambient")
	f.reg.AddClipsToActive(clip.New(host.Asset{ID: "a"}))
	f.reg.Add("Other")
	f.reg.AddClipsToActive(clip.New(host.Asset{ID: "b"}))

	f.scene.InvokeAction("PlayRandomClipFromAmbient")
	f.scene.InvokeAction("QueueRandomClipFromAmbient")
	f.scene.InvokeAction(actions.PlayActiveAction)
	f.scene.InvokeAction(actions.QueueActiveAction)

	want := []testsupport.ReceiverCall{
		{Method: "PlayNowClearQueue", AssetID: "a"},
		{Method: "Enqueue", AssetID: "a"},
		{Method: "PlayNowClearQueue", AssetID: "b"},
		{Method: "Enqueue", AssetID: "b"},
	}
	if !slices.Equal(f.rec.Calls, want) {
		t.Fatalf("receiver calls = %v, want %v", f.rec.Calls, want)
	}
}

func TestDuplicateRegistrationIsSkipped(t *testing.T) {
	f := newFixture(t)
	before, _ := f.actions.Binding("Untitled")
	f.actions.OnCollectionAdded("Untitled")
	after, _ := f.actions.Binding("Untitled")
	if before != after {
		t.Fatal("re-adding an existing binding should be a no-op")
	}
	f.actions.RegisterGlobal()
	if got := len(f.scene.ActionNames()); got != 4 {
		t.Fatalf("host action count = %d, want 4", got)
	}
}

func TestDeregisterAll(t *testing.T) {
	f := newFixture(t)
	f.reg.Add("B")
	f.actions.DeregisterAll()
	if got := f.scene.ActionNames(); len(got) != 0 {
		t.Fatalf("expected empty action table, got %v", got)
	}
}

func TestRespacedNamesKeepOneActionPerCollection(t *testing.T) {
	f := newFixture(t)
	if f.reg.Add("My Song") == nil {
		t.Fatal("expected My Song to be added")
	}
	if f.reg.Add("MySong") != nil {
		t.Fatal("MySong would share My Song's actions and must be rejected")
	}
	f.reg.Add("Other")
	if f.reg.RenameActive("My\tSong") {
		t.Fatal("renaming onto My Song's action name must be rejected")
	}

	f.reg.Remove("MySong")
	if !f.scene.InvokeAction("PlayRandomClipFromMySong") {
		t.Fatal("My Song lost its play action")
	}

	f.reg.Select("My Song")
	if !f.reg.RenameActive("MySong") {
		t.Fatal("a collection may be respaced onto its own action name")
	}
	if !f.scene.InvokeAction("QueueRandomClipFromMySong") {
		t.Fatal("queue action should survive the respacing rename")
	}
}
