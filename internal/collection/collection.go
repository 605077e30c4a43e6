package collection

import (
	"log/slog"

	"github.com/google/uuid"

	"audiomate/internal/clip"
	"audiomate/internal/host"
	"audiomate/internal/logging"
)

// Collection is a named group of clips with its own playback settings and
// receiver.
type Collection struct {
	id          string
	name        string
	enabled     bool
	alwaysQueue bool
	onlyIfClear bool
	atomID      string
	nodeID      string
	receiver    host.Receiver
	sel         *clip.Selector
	logger      *slog.Logger
}

// Settings carries the initial configuration of a new collection.
type Settings struct {
	Rand           clip.Rand
	ReceiverAtomID string
	ReceiverNodeID string
	Logger         *slog.Logger
}

// New creates an enabled, shuffling collection with a play chance of 1.
func New(name string, settings Settings) *Collection {
	logger := settings.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	sel := clip.NewSelector(settings.Rand)
	return &Collection{
		id:      uuid.NewString(),
		name:    name,
		enabled: true,
		atomID:  settings.ReceiverAtomID,
		nodeID:  settings.ReceiverNodeID,
		sel:     sel,
		logger:  logger,
	}
}

// ID returns the stable identifier of the collection. It survives renames.
func (c *Collection) ID() string { return c.id }

func (c *Collection) Name() string { return c.name }

func (c *Collection) Enabled() bool { return c.enabled }

func (c *Collection) SetEnabled(enabled bool) { c.enabled = enabled }

func (c *Collection) Shuffle() bool { return c.sel.Shuffle() }

func (c *Collection) SetShuffle(on bool) { c.sel.SetShuffle(on) }

func (c *Collection) AlwaysQueue() bool { return c.alwaysQueue }

func (c *Collection) SetAlwaysQueue(on bool) { c.alwaysQueue = on }

func (c *Collection) OnlyIfClear() bool { return c.onlyIfClear }

func (c *Collection) SetOnlyIfClear(on bool) { c.onlyIfClear = on }

func (c *Collection) PlayChance() float64 { return c.sel.PlayChance() }

// SetPlayChance stores chance clamped to [0, 1].
func (c *Collection) SetPlayChance(chance float64) { c.sel.SetPlayChance(chance) }

func (c *Collection) LastPlayedIndex() int { return c.sel.LastPlayedIndex() }

func (c *Collection) SetLastPlayedIndex(idx int) { c.sel.SetLastPlayedIndex(idx) }

func (c *Collection) ReceiverAtomID() string { return c.atomID }

func (c *Collection) ReceiverNodeID() string { return c.nodeID }

// SetReceiverTarget changes the receiver identity. The live receiver is
// dropped until the next SyncReceiver.
func (c *Collection) SetReceiverTarget(atomID, nodeID string) {
	if atomID == c.atomID && nodeID == c.nodeID {
		return
	}
	c.atomID = atomID
	c.nodeID = nodeID
	c.receiver = nil
}

// Receiver returns the resolved receiver, if any.
func (c *Collection) Receiver() (host.Receiver, bool) {
	return c.receiver, c.receiver != nil
}

// SyncReceiver resolves the receiver identity through lookup. When the target
// cannot be resolved the receiver stays unset and playback is a no-op until a
// later sync succeeds.
func (c *Collection) SyncReceiver(lookup host.AtomLookup) bool {
	c.receiver = nil
	if lookup == nil || c.atomID == "" || c.nodeID == "" {
		return false
	}
	r, ok := lookup.Resolve(c.atomID, c.nodeID)
	if !ok || r == nil {
		logging.WarnWithContext(c.logger, "receiver unresolved", "receiver_unresolved",
			logging.String(logging.FieldCollection, c.name),
			logging.String(logging.FieldAtom, c.atomID),
			logging.String(logging.FieldNode, c.nodeID),
			logging.String(logging.FieldErrorHint, "check that the atom exists and exposes the audio node"),
			logging.String(logging.FieldImpact, "playback from this collection is skipped until the receiver resolves"),
		)
		return false
	}
	c.receiver = r
	return true
}

// Add appends a clip unless it is already a member.
func (c *Collection) Add(cl *clip.Clip) bool { return c.sel.Add(cl) }

// Remove drops a member clip.
func (c *Collection) Remove(cl *clip.Clip) bool { return c.sel.Remove(cl) }

// RemoveSource drops the member referencing sourceID.
func (c *Collection) RemoveSource(sourceID string) bool { return c.sel.RemoveSource(sourceID) }

// Clear removes every member.
func (c *Collection) Clear() { c.sel.Clear() }

func (c *Collection) Contains(cl *clip.Clip) bool { return c.sel.Contains(cl) }

func (c *Collection) Find(sourceID string) (*clip.Clip, bool) { return c.sel.Find(sourceID) }

func (c *Collection) Members() []*clip.Clip { return c.sel.Members() }

func (c *Collection) Len() int { return c.sel.Len() }

// Pool returns the member indices not yet played in the current shuffle pass.
func (c *Collection) Pool() []int { return c.sel.Pool() }

// PlayRandom draws a clip and dispatches it to the receiver. It is a no-op
// when the collection is disabled, empty, or has no resolved receiver, and
// reports whether a clip was dispatched.
func (c *Collection) PlayRandom(queueOnly bool) bool {
	if !c.enabled || c.sel.Len() == 0 || c.receiver == nil {
		return false
	}
	next, ok := c.sel.Draw(false)
	if !ok {
		return false
	}
	asset := next.Asset
	switch {
	case c.alwaysQueue || queueOnly:
		c.receiver.Enqueue(asset)
	case c.onlyIfClear:
		c.receiver.PlayIfClear(asset)
	default:
		c.receiver.PlayNowClearQueue(asset)
	}
	c.logger.Debug("clip dispatched",
		logging.String(logging.FieldCollection, c.name),
		logging.String(logging.FieldClip, asset.ID),
		logging.Bool("queued", c.alwaysQueue || queueOnly),
	)
	return true
}
