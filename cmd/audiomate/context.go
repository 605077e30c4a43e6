package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"audiomate/internal/config"
	"audiomate/internal/engine"
	"audiomate/internal/logging"
	"audiomate/internal/textutil"
)

type commandContext struct {
	configFlag *string
	waitFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, waitFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		waitFlag:   waitFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue returns the process logger. Failing to open the log file falls
// back to a stderr-only logger.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) wait() bool {
	return c.waitFlag != nil && *c.waitFlag
}

// openSession loads the stored scene and returns it ready for changes.
func (c *commandContext) openSession(ctx context.Context) (*engine.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return engine.OpenSession(ctx, cfg, c.loggerValue(), engine.SessionOptions{Wait: c.wait()})
}

// withSession runs fn against the stored scene without saving.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(*engine.Session) error) error {
	session, err := c.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(session)
}

// mutate runs fn against the stored scene and saves the result when fn
// succeeds.
func (c *commandContext) mutate(cmd *cobra.Command, fn func(*engine.Session) error) error {
	return c.withSession(cmd, func(session *engine.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		return session.Save(cmd.Context())
	})
}

// skipConfigLoad is the annotation key for commands that load (or create)
// the configuration themselves.
const skipConfigLoad = "skipConfigLoad"

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigLoad] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	return textutil.Choose(value, "yes", "no")
}
