package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	SoundsDir string `toml:"sounds_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Engine contains tick and selection settings for the collection engine.
type Engine struct {
	TickIntervalMS    int     `toml:"tick_interval_ms"`
	ReadyAttempts     int     `toml:"ready_attempts"`
	AssetCategory     string  `toml:"asset_category"`
	DefaultPlayChance float64 `toml:"default_play_chance"`
}

// Atom declares a scene object that can host audio receivers.
type Atom struct {
	UID      string   `toml:"uid"`
	Category string   `toml:"category"`
	Type     string   `toml:"type"`
	Nodes    []string `toml:"nodes"`
}

// Host describes the scene the engine is embedded into.
type Host struct {
	Scene          string `toml:"scene"`
	ContainingAtom string `toml:"containing_atom"`
	Atoms          []Atom `toml:"atoms"`
}

// Triggers contains the collider choices offered for trigger bindings.
type Triggers struct {
	Colliders       []string `toml:"colliders"`
	DefaultCollider string   `toml:"default_collider"`
}

// Audio contains output device settings.
type Audio struct {
	SampleRate int  `toml:"sample_rate"`
	BufferMS   int  `toml:"buffer_ms"`
	Muted      bool `toml:"muted"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for AudioMate.
//
// Configuration sections by subsystem:
//   - Paths: sound library, scene state, and log directories
//   - Engine: tick cadence, readiness ceiling, catalog category, defaults
//   - Host: scene name, containing atom, and the declared atoms
//   - Triggers: collider choices for trigger bindings
//   - Audio: speaker sample rate and buffer
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Engine   Engine   `toml:"engine"`
	Host     Host     `toml:"host"`
	Triggers Triggers `toml:"triggers"`
	Audio    Audio    `toml:"audio"`
	Logging  Logging  `toml:"logging"`
}

// Load reads the configuration at path, or the first existing default
// location when path is empty, then applies environment overrides,
// normalizes paths, and validates. It also reports the path it settled on
// and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				return nil, "", false, fmt.Errorf("parse config %s:%d:%d: %w", resolved, row, col, err)
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	for _, step := range []func() error{cfg.applyEnv, cfg.normalize, cfg.Validate} {
		if err := step(); err != nil {
			return nil, "", false, err
		}
	}
	return &cfg, resolved, exists, nil
}

// resolveConfigPath honours an explicit path even when it does not exist yet.
// Otherwise the user config file wins over ./audiomate.toml, and the user
// location is reported when neither exists.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat config: %w", err)
	}
}

// ColliderKnown reports whether id is one of the configured colliders.
func (c *Config) ColliderKnown(id string) bool {
	return slices.Contains(c.Triggers.Colliders, id)
}
