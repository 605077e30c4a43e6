package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"audiomate/internal/engine"
	"audiomate/internal/host"
	"audiomate/internal/testsupport"
)

func openSession(t *testing.T, ctx context.Context, cfgDir string) *engine.Session {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.InDir(cfgDir))
	s, err := engine.OpenSession(ctx, cfg, nil, engine.SessionOptions{Rand: &testsupport.ScriptedRand{}})
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	return s
}

func TestSessionPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"a.wav", "b.wav"} {
		testsupport.WriteWAV(t, filepath.Join(dir, "sounds", name), 8000, 800)
	}

	first := openSession(t, ctx, dir)
	ctrl := first.Controller
	if ctrl.Library().Len() != 2 {
		t.Fatalf("library holds %d clips", ctrl.Library().Len())
	}
	ctrl.Registry().RenameActive("Moans")
	ctrl.Library().AddAll()
	ctrl.Registry().Active().SetOnlyIfClear(true)
	if _, ok := ctrl.AddTriggerAction("VaginaTrigger", host.PhaseStart); !ok {
		t.Fatal("AddTriggerAction failed")
	}
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second := openSession(t, ctx, dir)
	defer second.Close()
	active := second.Controller.Registry().Active()
	if active.Name() != "Moans" || active.Len() != 2 || !active.OnlyIfClear() {
		t.Fatalf("restored %s len=%d onlyIfClear=%v", active.Name(), active.Len(), active.OnlyIfClear())
	}
	if bound := second.Controller.Binder().Bound(); len(bound) != 1 {
		t.Fatalf("bound entries = %+v", bound)
	}

	fired, err := second.Scene.FireTrigger("VaginaTrigger", host.PhaseStart)
	if err != nil || fired != 1 {
		t.Fatalf("fired %d err %v", fired, err)
	}
	player := second.Output.Player("Person", "HeadAudioSource")
	if _, ok := player.NowPlaying(); !ok {
		t.Fatal("trigger should start a clip on the containing atom")
	}
	second.Tick(time.Second)
	if !player.Idle() {
		t.Fatal("clip should finish once the muted clock advances past it")
	}
}

func TestSessionLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first := openSession(t, ctx, dir)
	defer first.Close()

	cfg := testsupport.NewConfig(t, testsupport.InDir(dir))
	_, err := engine.OpenSession(ctx, cfg, nil, engine.SessionOptions{})
	if !errors.Is(err, engine.ErrBusy) {
		t.Fatalf("second open err = %v, want ErrBusy", err)
	}
}

func TestSessionRemembersActiveCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testsupport.WriteWAV(t, filepath.Join(dir, "sounds", "a.wav"), 8000, 80)

	first := openSession(t, ctx, dir)
	reg := first.Controller.Registry()
	first.Controller.Library().AddAll()
	reg.Add("Second")
	first.Controller.Library().AddAll()
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second := openSession(t, ctx, dir)
	defer second.Close()
	if got := second.Controller.Registry().Active().Name(); got != "Second" {
		t.Fatalf("active = %s, want Second", got)
	}
	a, _ := second.Controller.Library().Get("a.wav")
	if !a.InActiveCollection() {
		t.Fatal("library flags should follow the remembered selection")
	}
}

func TestSessionKeepsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testsupport.WriteWAV(t, filepath.Join(dir, "sounds", "a.wav"), 8000, 80)

	first := openSession(t, ctx, dir)
	reg := first.Controller.Registry()
	reg.RenameActive("Filled")
	first.Controller.Library().AddAll()
	moans := reg.Add("Moans")
	moans.SetShuffle(false)
	moans.SetPlayChance(0.25)
	reg.Add("Rain")
	reg.Select("Moans")
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second := openSession(t, ctx, dir)
	reg = second.Controller.Registry()
	if got := reg.Names(); !slices.Equal(got, []string{"Filled", "Moans", "Rain"}) {
		t.Fatalf("names after reopen = %v", got)
	}
	restored := reg.Get("Moans")
	if reg.Active() != restored {
		t.Fatalf("active = %s, want Moans", reg.Active().Name())
	}
	if restored.Shuffle() || restored.PlayChance() != 0.25 || restored.Len() != 0 {
		t.Fatalf("Moans shuffle=%v chance=%v len=%d", restored.Shuffle(), restored.PlayChance(), restored.Len())
	}
	if reg.Add("Moans") != nil {
		t.Fatal("restored empty collection should still reserve its name")
	}
	if err := second.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second.Close()

	third := openSession(t, ctx, dir)
	defer third.Close()
	if got := third.Controller.Registry().Names(); !slices.Equal(got, []string{"Filled", "Moans", "Rain"}) {
		t.Fatalf("names after second reopen = %v", got)
	}
}

func TestSessionDropsDefaultWhenOnlyEmptyCollectionsStored(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := openSession(t, ctx, dir)
	first.Controller.Registry().RenameActive("Rain")
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second := openSession(t, ctx, dir)
	defer second.Close()
	reg := second.Controller.Registry()
	if got := reg.Names(); !slices.Equal(got, []string{"Rain"}) {
		t.Fatalf("names = %v, want [Rain]", got)
	}
	if reg.Active().Name() != "Rain" {
		t.Fatalf("active = %s", reg.Active().Name())
	}
}
