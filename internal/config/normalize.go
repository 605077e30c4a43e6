package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeHost()
	c.normalizeTriggers()
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SoundsDir) == "" {
		c.Paths.SoundsDir = defaultSoundsDir
	}
	if c.Paths.SoundsDir, err = expandPath(c.Paths.SoundsDir); err != nil {
		return fmt.Errorf("paths.sounds_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() {
	if c.Engine.TickIntervalMS == 0 {
		c.Engine.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Engine.ReadyAttempts == 0 {
		c.Engine.ReadyAttempts = defaultReadyAttempts
	}
	c.Engine.AssetCategory = strings.TrimSpace(c.Engine.AssetCategory)
	if c.Engine.AssetCategory == "" {
		c.Engine.AssetCategory = defaultAssetCategory
	}
}

func (c *Config) normalizeHost() {
	c.Host.Scene = strings.TrimSpace(c.Host.Scene)
	if c.Host.Scene == "" {
		c.Host.Scene = defaultScene
	}
	c.Host.ContainingAtom = strings.TrimSpace(c.Host.ContainingAtom)
	if c.Host.ContainingAtom == "" {
		c.Host.ContainingAtom = defaultContainingAtom
	}
	for i := range c.Host.Atoms {
		atom := &c.Host.Atoms[i]
		atom.UID = strings.TrimSpace(atom.UID)
		atom.Category = strings.TrimSpace(atom.Category)
		atom.Type = strings.TrimSpace(atom.Type)
		nodes := atom.Nodes[:0]
		for _, node := range atom.Nodes {
			if node = strings.TrimSpace(node); node != "" {
				nodes = append(nodes, node)
			}
		}
		atom.Nodes = nodes
	}
}

func (c *Config) normalizeTriggers() {
	colliders := make([]string, 0, len(c.Triggers.Colliders))
	seen := make(map[string]struct{}, len(c.Triggers.Colliders))
	for _, collider := range c.Triggers.Colliders {
		collider = strings.TrimSpace(collider)
		if collider == "" {
			continue
		}
		if _, ok := seen[collider]; ok {
			continue
		}
		seen[collider] = struct{}{}
		colliders = append(colliders, collider)
	}
	if len(colliders) == 0 {
		colliders = DefaultColliders()
	}
	c.Triggers.Colliders = colliders
	c.Triggers.DefaultCollider = strings.TrimSpace(c.Triggers.DefaultCollider)
	if c.Triggers.DefaultCollider == "" {
		c.Triggers.DefaultCollider = colliders[0]
	}
}

func (c *Config) normalizeAudio() {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.BufferMS == 0 {
		c.Audio.BufferMS = defaultBufferMS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
