package engine

import (
	"log/slog"
	"slices"
	"strings"

	"audiomate/internal/actions"
	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/config"
	"audiomate/internal/host"
	"audiomate/internal/library"
	"audiomate/internal/logging"
	"audiomate/internal/persist"
	"audiomate/internal/trigger"
)

// DefaultStoreID identifies the engine as the receiver of trigger entries.
const DefaultStoreID = "plugin#0_AudioMate"

// Lifecycle is the set of hooks a host drives.
type Lifecycle interface {
	Init()
	LateInit()
	OnEnable()
	OnDisable()
	OnTick()
	OnTeardown()
}

// Host is everything the controller needs from the embedding scene.
type Host interface {
	host.ActionHost
	host.TriggerHost
	host.AtomLookup
	host.AtomDirectory
	host.LoadState
	OnAtomRename(fn func(oldID, newID string))
}

// Settings are the controller's tunables.
type Settings struct {
	StoreID           string
	AssetCategory     string
	ReadyAttempts     int
	DefaultPlayChance float64
	ReceiverAtom      string
	ReceiverNode      string
	Colliders         []string
}

// SettingsFromConfig derives settings from configuration. The default
// receiver node is guessed from the containing atom's category and type.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		StoreID:           DefaultStoreID,
		AssetCategory:     cfg.Engine.AssetCategory,
		ReadyAttempts:     cfg.Engine.ReadyAttempts,
		DefaultPlayChance: cfg.Engine.DefaultPlayChance,
		ReceiverAtom:      cfg.Host.ContainingAtom,
		ReceiverNode:      host.NodeNone,
		Colliders:         slices.Clone(cfg.Triggers.Colliders),
	}
	for _, atom := range cfg.Host.Atoms {
		if atom.UID == cfg.Host.ContainingAtom {
			settings.ReceiverNode = host.GuessReceivingNode(atom.Category, atom.Type)
		}
	}
	return settings
}

// Deps are the controller's collaborators.
type Deps struct {
	Host     Host
	Assets   host.AssetLookup
	Rand     clip.Rand
	Settings Settings
	Logger   *slog.Logger
}

// Controller runs the collection engine inside a host.
type Controller struct {
	host     Host
	assets   host.AssetLookup
	settings Settings

	reg     *collection.Registry
	actions *actions.Registry
	binder  *trigger.Binder
	library *library.Library

	ready       Readiness
	parked      []byte
	hasParked   bool
	restoring   bool
	pendingNode string
	initialized bool
	tornDown    bool

	logger *slog.Logger
}

var _ Lifecycle = (*Controller)(nil)

// NewController builds a controller. Nothing is registered with the host
// until Init.
func NewController(deps Deps) *Controller {
	settings := deps.Settings
	if strings.TrimSpace(settings.StoreID) == "" {
		settings.StoreID = DefaultStoreID
	}
	logger := logging.NewComponentLogger(deps.Logger, "engine")
	reg := collection.NewRegistry(collection.Options{
		Atoms:               deps.Host,
		Rand:                deps.Rand,
		DefaultReceiverAtom: settings.ReceiverAtom,
		DefaultReceiverNode: settings.ReceiverNode,
		DefaultPlayChance:   settings.DefaultPlayChance,
		Logger:              deps.Logger,
	})
	return &Controller{
		host:     deps.Host,
		assets:   deps.Assets,
		settings: settings,
		reg:      reg,
		actions:  actions.New(deps.Host, reg, deps.Logger),
		binder:   trigger.New(deps.Host, settings.StoreID, settings.Colliders, deps.Logger),
		library:  library.New(deps.Assets, settings.AssetCategory, reg, deps.Logger),
		ready:    NewReadiness(settings.ReadyAttempts),
		logger:   logger,
	}
}

func (c *Controller) Registry() *collection.Registry { return c.reg }

func (c *Controller) Actions() *actions.Registry { return c.actions }

func (c *Controller) Binder() *trigger.Binder { return c.binder }

func (c *Controller) Library() *library.Library { return c.library }

// Readiness returns the initialization wait.
func (c *Controller) Readiness() Readiness { return c.ready }

// Ready reports whether the registry is initialized and usable.
func (c *Controller) Ready() bool { return c.ready.Ready() }

// Init subscribes the action registry, trigger binder, and library to
// registry events and registers the active-collection actions. Actions are
// attached first so the default collection created later gets its actions.
func (c *Controller) Init() {
	if c.initialized || c.tornDown {
		return
	}
	c.initialized = true
	c.actions.Attach(c.reg)
	c.actions.RegisterGlobal()
	c.binder.Attach(c.reg)
	c.library.Attach()
	c.reg.OnActiveCollectionSelected(func(collection.ActiveCollectionSelected) { c.pendingNode = "" })
	c.host.OnAtomRename(c.onAtomRename)
	c.logger.Debug("engine initialized", logging.String("store_id", c.settings.StoreID))
}

// LateInit makes the first readiness poll.
func (c *Controller) LateInit() {
	c.poll()
}

// OnEnable enables every collection.
func (c *Controller) OnEnable() {
	c.reg.EnableAll()
}

// OnDisable disables every collection.
func (c *Controller) OnDisable() {
	c.reg.DisableAll()
}

// OnTick advances pending waits: initialization, receiver resolution, and
// late node detection.
func (c *Controller) OnTick() {
	if c.tornDown || !c.initialized {
		return
	}
	if c.ready.Pending() {
		c.poll()
		return
	}
	if !c.ready.Ready() {
		return
	}
	c.retryReceivers()
	c.detectPendingNode()
}

// OnTeardown deregisters every action and drops parked work.
func (c *Controller) OnTeardown() {
	if c.tornDown {
		return
	}
	c.tornDown = true
	c.actions.DeregisterAll()
	c.parked, c.hasParked = nil, false
	c.logger.Debug("engine torn down")
}

func (c *Controller) poll() {
	if !c.initialized || !c.ready.Pending() {
		return
	}
	if c.host.Loading() {
		c.attempt("host is loading")
		return
	}
	if _, _, ok := c.library.Refresh(); !ok {
		c.attempt("asset catalog not ready")
		return
	}
	c.reg.Init()
	c.ready.MarkReady()
	c.logger.Info("engine ready",
		logging.Int("attempts", c.ready.Attempts()),
		logging.Int("collections", c.reg.Len()),
	)
	if c.hasParked {
		doc := c.parked
		c.parked, c.hasParked = nil, false
		c.Restore(doc)
	}
}

func (c *Controller) attempt(reason string) {
	if c.ready.Attempt() != StateFailed {
		return
	}
	logging.ErrorWithContext(c.logger, "could not initialize collections", "engine_not_ready",
		logging.String("reason", reason),
		logging.Int("attempts", c.ready.Attempts()),
		logging.String(logging.FieldErrorHint, "check the sounds directory and raise engine.ready_attempts if the host loads slowly"),
		logging.String(logging.FieldImpact, "collections, actions, and restores are unavailable"),
	)
	c.parked, c.hasParked = nil, false
}

// Restore replaces the registry with a stored plugin document. A document
// arriving before the engine is ready is parked and applied once ready,
// replacing any earlier parked document. A restore issued while another is
// being applied is ignored. It reports whether collections were restored now.
func (c *Controller) Restore(document []byte) bool {
	if c.restoring {
		c.logger.Debug("restore ignored while restoring")
		return false
	}
	switch {
	case c.tornDown:
		return false
	case c.ready.Failed():
		logging.WarnWithContext(c.logger, "restore dropped", "restore_dropped",
			logging.String(logging.FieldErrorHint, "restart once the sounds directory is readable"),
			logging.String(logging.FieldImpact, "stored collections are not loaded"),
		)
		return false
	case !c.ready.Ready():
		c.parked, c.hasParked = slices.Clone(document), true
		c.logger.Info("restore parked until ready")
		return false
	}

	c.restoring = true
	defer func() { c.restoring = false }()
	n := persist.Restore(document, c.reg, persist.Deps{
		Assets: c.assets,
		Clips:  c.library,
		Logger: c.logger,
	})
	c.library.RefreshFlags()
	return n > 0
}

// Snapshot encodes the registry as a plugin document.
func (c *Controller) Snapshot() ([]byte, error) {
	return persist.Snapshot(c.reg)
}

// RestoreLayout re-creates the empty collections and order recorded by
// SnapshotLayout. It only applies once the engine is ready, after Restore.
func (c *Controller) RestoreLayout(layout []byte) int {
	if !c.ready.Ready() || c.tornDown {
		return 0
	}
	n := persist.RestoreLayout(layout, c.reg, persist.Deps{
		Assets: c.assets,
		Clips:  c.library,
		Logger: c.logger,
	})
	c.library.RefreshFlags()
	return n
}

// SnapshotLayout encodes the collection order and the empty collections
// that Snapshot leaves out.
func (c *Controller) SnapshotLayout() ([]byte, error) {
	return persist.SnapshotLayout(c.reg)
}

// RefreshLibrary reindexes the asset catalog after it changed.
func (c *Controller) RefreshLibrary() (added, removed int) {
	added, removed, _ = c.library.Refresh()
	return added, removed
}

// SetReceivingAtom points the active collection at an atom, guessing its
// audio node from the atom's category and type. An atom that does not expose
// the guessed node yet is watched until it does.
func (c *Controller) SetReceivingAtom(uid string) bool {
	active := c.reg.Active()
	if active == nil {
		return false
	}
	uid = strings.TrimSpace(uid)
	info, ok := c.host.Atom(uid)
	if !ok {
		logging.WarnWithContext(c.logger, "receiving atom not found", "receiver_unresolved",
			logging.String(logging.FieldCollection, active.Name()),
			logging.String(logging.FieldAtom, uid),
			logging.String(logging.FieldErrorHint, "pick an atom declared in the scene"),
			logging.String(logging.FieldImpact, "receiver unchanged"),
		)
		return false
	}
	if uid == active.ReceiverAtomID() {
		return true
	}
	node := host.GuessReceivingNode(info.Category, info.Type)
	active.SetReceiverTarget(uid, node)
	c.pendingNode = ""
	if node != host.NodeNone {
		if slices.Contains(info.Nodes, node) {
			active.SyncReceiver(c.host)
		} else {
			c.pendingNode = node
		}
	}
	c.logger.Info("receiving atom changed",
		logging.String(logging.FieldCollection, active.Name()),
		logging.String(logging.FieldAtom, uid),
		logging.String(logging.FieldNode, node),
	)
	c.reg.NotifyActiveUpdated()
	return true
}

// SetReceivingNode points the active collection at a node of its current
// atom. A node the atom does not expose yet is applied on the tick it
// appears.
func (c *Controller) SetReceivingNode(nodeID string) bool {
	active := c.reg.Active()
	nodeID = strings.TrimSpace(nodeID)
	if active == nil || nodeID == "" {
		return false
	}
	if !c.atomHasNode(active.ReceiverAtomID(), nodeID) {
		c.pendingNode = nodeID
		c.logger.Info("waiting for receiving node",
			logging.String(logging.FieldAtom, active.ReceiverAtomID()),
			logging.String(logging.FieldNode, nodeID),
		)
		return false
	}
	c.pendingNode = ""
	c.applyNode(active, nodeID)
	return true
}

// PendingNode returns the node still awaited by SetReceivingNode.
func (c *Controller) PendingNode() string { return c.pendingNode }

func (c *Controller) applyNode(active *collection.Collection, nodeID string) {
	active.SetReceiverTarget(active.ReceiverAtomID(), nodeID)
	active.SyncReceiver(c.host)
	c.logger.Info("receiving node changed",
		logging.String(logging.FieldCollection, active.Name()),
		logging.String(logging.FieldNode, nodeID),
	)
	c.reg.NotifyActiveUpdated()
}

func (c *Controller) atomHasNode(atomID, nodeID string) bool {
	info, ok := c.host.Atom(atomID)
	return ok && slices.Contains(info.Nodes, nodeID)
}

func (c *Controller) detectPendingNode() {
	if c.pendingNode == "" {
		return
	}
	active := c.reg.Active()
	if active == nil || !c.atomHasNode(active.ReceiverAtomID(), c.pendingNode) {
		return
	}
	node := c.pendingNode
	c.pendingNode = ""
	c.applyNode(active, node)
}

// retryReceivers resolves receivers that became available since the last
// sync. Targets that still do not resolve are left for the next tick.
func (c *Controller) retryReceivers() {
	for _, col := range c.reg.Collections() {
		if _, ok := col.Receiver(); ok {
			continue
		}
		if _, ok := c.host.Resolve(col.ReceiverAtomID(), col.ReceiverNodeID()); ok {
			col.SyncReceiver(c.host)
		}
	}
}

func (c *Controller) onAtomRename(oldID, newID string) {
	c.reg.OnAtomRename(oldID, newID)
	c.logger.Info("atom renamed",
		logging.String(logging.FieldAtom, newID),
		logging.String("previous", oldID),
	)
}

// AddTriggerAction binds the active collection's play action to a collider
// phase.
func (c *Controller) AddTriggerAction(collider string, phase host.Phase) (*host.TriggerEntry, bool) {
	active := c.reg.Active()
	if active == nil {
		return nil, false
	}
	return c.binder.AddForCollection(collider, active.Name(), phase)
}

// RemoveTriggerAction removes the active collection's entry from a collider
// phase.
func (c *Controller) RemoveTriggerAction(collider string, phase host.Phase) bool {
	active := c.reg.Active()
	if active == nil {
		return false
	}
	return c.binder.RemoveForCollection(collider, active.Name(), phase)
}
