package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"audiomate/internal/config"
	"audiomate/internal/host"
	"audiomate/internal/library"
	"audiomate/internal/scenestore"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "(error: not configured)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog scans the sounds directory and reports how many clips it holds.
// An empty library passes with a hint since collections can still be edited.
func CheckCatalog(cfg *config.Config) Result {
	const name = "Sounds directory"
	catalog := library.NewCatalog(cfg.Paths.SoundsDir, cfg.Engine.AssetCategory, nil)
	if err := catalog.Scan(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("scan failed (%v)", err)}
	}
	assets, _ := catalog.EnumerateAvailable(cfg.Engine.AssetCategory)
	if len(assets) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no clips; use 'audiomate library import')", cfg.Paths.SoundsDir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d clips)", cfg.Paths.SoundsDir, len(assets))}
}

// CheckSceneStore opens the scene database and verifies its schema.
func CheckSceneStore(ctx context.Context, cfg *config.Config) Result {
	const name = "Scene store"
	store, err := scenestore.Open(cfg)
	if err != nil {
		if errors.Is(err, scenestore.ErrSchemaMismatch) {
			return Result{Name: name, Detail: err.Error()}
		}
		return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", err)}
	}
	defer store.Close()

	scenes, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("query failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d scenes)", store.Path(), len(scenes))}
}

// CheckReceiverAtom verifies the containing atom is declared and exposes an
// audio node new collections can target.
func CheckReceiverAtom(cfg *config.Config) Result {
	const name = "Receiver atom"
	uid := strings.TrimSpace(cfg.Host.ContainingAtom)
	for _, atom := range cfg.Host.Atoms {
		if atom.UID != uid {
			continue
		}
		node := host.GuessReceivingNode(atom.Category, atom.Type)
		if node == host.NodeNone {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no audio node for category %q type %q)", uid, atom.Category, atom.Type)}
		}
		for _, declared := range atom.Nodes {
			if declared == node {
				return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s/%s", uid, node)}
			}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: node %s not declared)", uid, node)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s (error: atom not declared in [[host.atoms]])", uid)}
}

// CheckAudioOutput reports the configured output mode.
func CheckAudioOutput(cfg *config.Config) Result {
	const name = "Audio output"
	if cfg.Audio.Muted {
		return Result{Name: name, Passed: true, Optional: true, Detail: "muted"}
	}
	return Result{
		Name:     name,
		Passed:   true,
		Optional: true,
		Detail:   fmt.Sprintf("%d Hz, %d ms buffer", cfg.Audio.SampleRate, cfg.Audio.BufferMS),
	}
}
