package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateHost(); err != nil {
		return err
	}
	if err := c.validateTriggers(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.TickIntervalMS <= 0 {
		return errors.New("engine.tick_interval_ms must be positive")
	}
	if c.Engine.ReadyAttempts <= 0 {
		return errors.New("engine.ready_attempts must be positive")
	}
	if c.Engine.DefaultPlayChance < 0 || c.Engine.DefaultPlayChance > 1 {
		return errors.New("engine.default_play_chance must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateHost() error {
	seen := make(map[string]struct{}, len(c.Host.Atoms))
	for i, atom := range c.Host.Atoms {
		if atom.UID == "" {
			return fmt.Errorf("host.atoms[%d].uid must be set", i)
		}
		if _, ok := seen[atom.UID]; ok {
			return fmt.Errorf("host.atoms: duplicate uid %q", atom.UID)
		}
		seen[atom.UID] = struct{}{}
	}
	if len(c.Host.Atoms) > 0 {
		if _, ok := seen[c.Host.ContainingAtom]; !ok {
			return fmt.Errorf("host.containing_atom %q is not declared in host.atoms", c.Host.ContainingAtom)
		}
	}
	return nil
}

func (c *Config) validateTriggers() error {
	if !c.ColliderKnown(c.Triggers.DefaultCollider) {
		return fmt.Errorf("triggers.default_collider %q must be one of triggers.colliders", c.Triggers.DefaultCollider)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Audio.BufferMS <= 0 {
		return errors.New("audio.buffer_ms must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
