package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that take precedence over the
// config file. Empty values leave the file setting in place.
type envOverrides struct {
	SoundsDir string `env:"AUDIOMATE_SOUNDS_DIR"`
	StateDir  string `env:"AUDIOMATE_STATE_DIR"`
	LogDir    string `env:"AUDIOMATE_LOG_DIR"`
	LogLevel  string `env:"AUDIOMATE_LOG_LEVEL"`
	LogFormat string `env:"AUDIOMATE_LOG_FORMAT"`
	Scene     string `env:"AUDIOMATE_SCENE"`
	Muted     *bool  `env:"AUDIOMATE_MUTED"`
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setIfPresent(&c.Paths.SoundsDir, overrides.SoundsDir)
	setIfPresent(&c.Paths.StateDir, overrides.StateDir)
	setIfPresent(&c.Paths.LogDir, overrides.LogDir)
	setIfPresent(&c.Logging.Level, overrides.LogLevel)
	setIfPresent(&c.Logging.Format, overrides.LogFormat)
	setIfPresent(&c.Host.Scene, overrides.Scene)
	if overrides.Muted != nil {
		c.Audio.Muted = *overrides.Muted
	}
	return nil
}

func setIfPresent(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
