package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiomate/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	soundsDir  string
	stateDir   string
	baseDir    string
}

// setupCLITestEnv writes a muted configuration with two sounds.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		configPath: filepath.Join(homeDir, ".config", "audiomate", "config.toml"),
		soundsDir:  filepath.Join(base, "sounds"),
		stateDir:   filepath.Join(base, "state"),
		baseDir:    base,
	}
	for _, name := range []string{"giggle.wav", "sigh.wav"} {
		testsupport.WriteWAV(t, filepath.Join(env.soundsDir, name), 8000, 400)
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
sounds_dir = %q
state_dir = %q
log_dir = %q

[engine]
tick_interval_ms = 5

[audio]
muted = true

[logging]
level = "error"
`, env.soundsDir, env.stateDir, filepath.Join(env.baseDir, "logs"))
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, err := runCLI(t, env, "", args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
