package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"audiomate/internal/clip"
	"audiomate/internal/config"
	"audiomate/internal/host"
	"audiomate/internal/library"
	"audiomate/internal/logging"
	"audiomate/internal/receiver"
	"audiomate/internal/scenestore"
)

// SessionOptions customize OpenSession.
type SessionOptions struct {
	// Rand overrides the random source used by selectors.
	Rand clip.Rand
	// Decoder overrides how receivers decode clips.
	Decoder receiver.Decoder
	// Wait blocks until the scene lock is free instead of failing fast.
	Wait bool
}

// Session is a controller assembled from configuration together with the
// scene, catalog, output, and store it runs against. It holds the scene
// lock until Close.
type Session struct {
	Config     *config.Config
	Scene      *host.Scene
	Catalog    *library.Catalog
	Output     *receiver.Output
	Store      *scenestore.Store
	Controller *Controller

	active string
	lock   *flock.Flock
	logger *slog.Logger
}

// BuildScene declares the configured atoms and trigger sources and attaches
// one output player per atom node.
func BuildScene(cfg *config.Config, output *receiver.Output) *host.Scene {
	scene := host.NewScene(cfg.Host.Scene)
	for _, atom := range cfg.Host.Atoms {
		scene.AddAtom(host.AtomInfo{UID: atom.UID, Category: atom.Category, Type: atom.Type})
		for _, node := range atom.Nodes {
			_ = scene.AttachReceiver(atom.UID, node, output.Player(atom.UID, node))
		}
	}
	for _, collider := range cfg.Triggers.Colliders {
		scene.AddTriggerSource(collider)
	}
	return scene
}

// OpenSession locks the scene, loads its stored state, and runs the
// controller until it is ready.
func OpenSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts SessionOptions) (*Session, error) {
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, "session", "open", "config is required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, Wrap(ErrConfiguration, "session", "ensure directories", "", err)
	}
	lock := flock.New(cfg.LockPath())
	if err := acquire(ctx, lock, opts.Wait); err != nil {
		return nil, err
	}
	s := &Session{Config: cfg, lock: lock, logger: logging.NewComponentLogger(logger, "session")}
	if err := s.open(ctx, opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func acquire(ctx context.Context, lock *flock.Flock, wait bool) error {
	if wait {
		if _, err := lock.TryLockContext(ctx, 100*time.Millisecond); err != nil {
			return Wrap(ErrBusy, "session", "lock scene", "", err)
		}
		return nil
	}
	ok, err := lock.TryLock()
	if err != nil {
		return Wrap(ErrConfiguration, "session", "lock scene", "", err)
	}
	if !ok {
		return Wrap(ErrBusy, "session", "lock scene", "another audiomate process holds "+lock.Path(), nil)
	}
	return nil
}

func (s *Session) open(ctx context.Context, opts SessionOptions) error {
	cfg := s.Config
	store, err := scenestore.Open(cfg)
	if err != nil {
		return Wrap(ErrConfiguration, "session", "open scene store", "", err)
	}
	s.Store = store

	s.Catalog = library.NewCatalog(cfg.Paths.SoundsDir, cfg.Engine.AssetCategory, s.logger)
	if err := s.Catalog.Scan(); err != nil {
		return Wrap(ErrNotReady, "session", "scan sounds", "", err)
	}

	s.Output = receiver.NewOutput(cfg.Audio, opts.Decoder, s.logger)
	s.Scene = BuildScene(cfg, s.Output)

	rnd := opts.Rand
	if rnd == nil {
		rnd = clip.DefaultRand()
	}
	s.Controller = NewController(Deps{
		Host:     s.Scene,
		Assets:   s.Catalog,
		Rand:     rnd,
		Settings: SettingsFromConfig(cfg),
		Logger:   s.logger,
	})
	s.Controller.Init()
	s.Controller.OnEnable()

	var layout []byte
	stored, err := store.Load(ctx, cfg.Host.Scene)
	switch {
	case errors.Is(err, scenestore.ErrNotFound):
		s.logger.Info("no stored scene", logging.String("scene", cfg.Host.Scene))
	case err != nil:
		return Wrap(ErrConfiguration, "session", "load scene", cfg.Host.Scene, err)
	default:
		s.Scene.LoadTriggerSources(stored.Triggers)
		s.Controller.Binder().Adopt(s.Scene.TriggerSources())
		s.Controller.Restore(stored.Document)
		s.active = stored.Active
		layout = stored.Layout
	}

	s.Controller.LateInit()
	for s.Controller.Readiness().Pending() {
		s.Controller.OnTick()
	}
	if !s.Controller.Ready() {
		return Wrap(ErrNotReady, "session", "initialize", "collections could not be initialized", nil)
	}
	s.Controller.RestoreLayout(layout)
	if s.active != "" {
		s.Controller.Registry().Select(s.active)
	}
	return nil
}

// Save writes the registry document, its layout, the trigger sources, and
// the active collection name back to the store.
func (s *Session) Save(ctx context.Context) error {
	doc, err := s.Controller.Snapshot()
	if err != nil {
		return Wrap(ErrValidation, "session", "encode collections", "", err)
	}
	layout, err := s.Controller.SnapshotLayout()
	if err != nil {
		return Wrap(ErrValidation, "session", "encode collection layout", "", err)
	}
	scene := scenestore.Scene{
		Name:     s.Config.Host.Scene,
		Document: doc,
		Layout:   layout,
		Triggers: s.Scene.TriggerSources(),
	}
	if active := s.Controller.Registry().Active(); active != nil {
		scene.Active = active.Name()
	}
	err = s.Store.Save(ctx, scene)
	if err != nil {
		return Wrap(ErrConfiguration, "session", "save scene", s.Config.Host.Scene, err)
	}
	s.logger.Debug("scene saved", logging.String("scene", s.Config.Host.Scene))
	return nil
}

// Tick advances the controller and, for muted outputs, the audio clock.
func (s *Session) Tick(elapsed time.Duration) {
	s.Controller.OnTick()
	s.Output.Advance(elapsed)
}

// Close tears the controller down and releases the output, store, and lock.
func (s *Session) Close() {
	if s.Controller != nil {
		s.Controller.OnTeardown()
	}
	if s.Output != nil {
		s.Output.Close()
	}
	if s.Store != nil {
		_ = s.Store.Close()
	}
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
}
