package main

import (
	"strings"
	"testing"
)

func TestPlayAndTriggers(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "play")
	requireContains(t, out, "played nothing")

	mustRunCLI(t, env, "clips", "add", "giggle.wav")
	out = mustRunCLI(t, env, "play")
	requireContains(t, out, "Untitled: Giggle")
	out = mustRunCLI(t, env, "queue", "Untitled")
	requireContains(t, out, "Untitled: Giggle")
	if _, err := runCLI(t, env, "", "play", "Nope"); err == nil {
		t.Fatal("expected unknown collection to fail")
	}

	out = mustRunCLI(t, env, "actions", "list")
	for _, name := range []string{"PlayRandomClipFromActiveCollection", "QueueRandomClipFromUntitled"} {
		requireContains(t, out, name)
	}
	out = mustRunCLI(t, env, "actions", "invoke", "PlayRandomClipFromUntitled")
	requireContains(t, out, "Invoked PlayRandomClipFromUntitled")

	out = mustRunCLI(t, env, "triggers", "add")
	requireContains(t, out, "VaginaTrigger:PlayRandomClipFromUntitled")
	if _, err := runCLI(t, env, "", "triggers", "add"); err == nil {
		t.Fatal("expected duplicate trigger entry to fail")
	}
	mustRunCLI(t, env, "triggers", "add", "LipTrigger", "--phase", "end")

	mustRunCLI(t, env, "collections", "rename", "Laughs")
	out = mustRunCLI(t, env, "triggers", "list")
	requireContains(t, out, "VaginaTrigger:PlayRandomClipFromLaughs")
	requireContains(t, out, "LipTrigger:PlayRandomClipFromLaughs")

	out = mustRunCLI(t, env, "triggers", "fire")
	requireContains(t, out, "VaginaTrigger start ran 1 actions")
	out = mustRunCLI(t, env, "triggers", "fire", "LipTrigger")
	requireContains(t, out, "LipTrigger start ran 0 actions")

	mustRunCLI(t, env, "triggers", "remove")
	out = mustRunCLI(t, env, "triggers", "list")
	if strings.Contains(out, "VaginaTrigger:PlayRandomClipFromLaughs") {
		t.Fatalf("entry still bound:\n%s", out)
	}
	if _, err := runCLI(t, env, "", "triggers", "add", "ElbowTrigger"); err == nil {
		t.Fatal("expected unknown collider to fail")
	}
}

func TestRunReadsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "clips", "add-all")

	script := strings.Join([]string{
		"status",
		"invoke PlayRandomClipFromUntitled",
		"invoke Nope",
		"fire VaginaTrigger",
		"rename-atom Person Alice",
		"status",
		"bogus",
		"quit",
	}, "\n")
	out, err := runCLI(t, env, script, "run")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "Untitled: 2 clips, receiver Person/HeadAudioSource (resolved yes)")
	requireContains(t, out, `action "Nope" is not registered`)
	requireContains(t, out, "VaginaTrigger start ran 0 actions")
	requireContains(t, out, "receiver Alice/HeadAudioSource (resolved yes)")
	requireContains(t, out, `unknown command "bogus"`)

	out = mustRunCLI(t, env, "collections", "list")
	requireContains(t, out, "Alice/HeadAudioSource")
}
