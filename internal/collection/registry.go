package collection

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"audiomate/internal/clip"
	"audiomate/internal/host"
	"audiomate/internal/logging"
	"audiomate/internal/textutil"
)

// DefaultNameBase is the first generated collection name; later ones append
// a counter starting at 2.
const DefaultNameBase = "Untitled"

// Options configures a Registry and the collections it creates.
type Options struct {
	Atoms               host.AtomLookup
	Rand                clip.Rand
	DefaultReceiverAtom string
	DefaultReceiverNode string
	DefaultPlayChance   float64
	Logger              *slog.Logger
}

// Registry owns the ordered set of collections and the active pointer.
type Registry struct {
	opts        Options
	collections []*Collection
	activeID    string
	initialized bool
	obs         observers
	logger      *slog.Logger
}

// NewRegistry creates an empty registry. Call Init to establish an active
// collection.
func NewRegistry(opts Options) *Registry {
	logger := logging.NewComponentLogger(opts.Logger, "collections")
	return &Registry{opts: opts, logger: logger}
}

// Init selects the first collection, or creates a default one when the
// registry is empty. Subsequent calls are no-ops.
func (r *Registry) Init() {
	if r.initialized {
		return
	}
	r.initialized = true
	r.EnsureActive()
}

// Initialized reports whether Init ran.
func (r *Registry) Initialized() bool { return r.initialized }

// EnsureActive restores the has-active state: it keeps a valid active
// collection, otherwise selects the first one or adds a default.
func (r *Registry) EnsureActive() {
	if r.Active() != nil {
		return
	}
	if len(r.collections) > 0 {
		r.SelectCollection(r.collections[0])
		return
	}
	r.Add("")
}

// NewCollection builds an unregistered collection using the registry defaults.
func (r *Registry) NewCollection(name string) *Collection {
	c := New(name, Settings{
		Rand:           r.opts.Rand,
		ReceiverAtomID: r.opts.DefaultReceiverAtom,
		ReceiverNodeID: r.opts.DefaultReceiverNode,
		Logger:         r.logger,
	})
	c.SetPlayChance(r.opts.DefaultPlayChance)
	return c
}

// Add creates a collection and makes it active. An empty name generates the
// next free default name. An explicit name that collides with another
// collection (see Collides) returns nil.
func (r *Registry) Add(name string) *Collection {
	name = strings.TrimSpace(name)
	if name == "" {
		name = r.availableDefaultName()
	} else if r.Collides(name, nil) {
		r.logger.Debug("collection name already in use", logging.String(logging.FieldCollection, name))
		return nil
	}
	return r.Adopt(r.NewCollection(name))
}

// Adopt registers an externally built collection and makes it active. A
// missing or colliding name is replaced by the next free default name.
func (r *Registry) Adopt(c *Collection) *Collection {
	return r.adopt(c, r.Active())
}

func (r *Registry) adopt(c *Collection, before *Collection) *Collection {
	if c == nil {
		return nil
	}
	c.name = strings.TrimSpace(c.name)
	if c.name == "" || r.Collides(c.name, nil) {
		generated := r.availableDefaultName()
		if c.name != "" {
			r.logger.Info("renamed duplicate collection",
				logging.String(logging.FieldCollection, c.name),
				logging.String("new_name", generated),
			)
		}
		c.name = generated
	}
	r.collections = append(r.collections, c)
	r.logger.Debug("collection added", logging.String(logging.FieldCollection, c.name))
	r.emitAdded(CollectionAdded{Name: c.name, Collection: c})
	r.selectCollection(c, before)
	return c
}

// Collides reports whether name matches another collection once whitespace
// is removed. Action names are derived from that form, so two such
// collections would share one action. except is ignored, letting a
// collection be renamed to a respaced form of its own name.
func (r *Registry) Collides(name string, except *Collection) bool {
	key := textutil.TrimAll(name)
	return slices.ContainsFunc(r.collections, func(c *Collection) bool {
		return c != except && textutil.TrimAll(c.name) == key
	})
}

// Remove deletes the named collection. When it was active the previous
// collection becomes active, or the last one if the removed collection was
// first; an emptied registry gets a fresh default collection. The resulting
// ActiveCollectionSelected event carries the removed collection as Before.
func (r *Registry) Remove(name string) bool {
	idx := r.indexOf(name)
	if idx < 0 {
		return false
	}
	removed := r.collections[idx]
	wasActive := removed.id == r.activeID
	r.collections = slices.Delete(r.collections, idx, idx+1)
	r.logger.Debug("collection removed", logging.String(logging.FieldCollection, removed.name))
	r.emitRemoved(CollectionRemoved{Name: removed.name})

	if !wasActive {
		return true
	}
	r.activeID = ""
	if len(r.collections) == 0 {
		r.adopt(r.NewCollection(r.availableDefaultName()), removed)
		return true
	}
	next := idx - 1
	if next < 0 {
		next = len(r.collections) - 1
	}
	r.selectCollection(r.collections[next], removed)
	return true
}

// RemoveActive deletes the active collection.
func (r *Registry) RemoveActive() bool {
	active := r.Active()
	if active == nil {
		return false
	}
	return r.Remove(active.name)
}

// Reset removes every collection without creating a default one. Removal
// events are raised in order. Callers must follow up with Adopt or
// EnsureActive.
func (r *Registry) Reset() {
	for len(r.collections) > 0 {
		removed := r.collections[0]
		r.collections = r.collections[1:]
		r.emitRemoved(CollectionRemoved{Name: removed.name})
	}
	r.collections = nil
	r.activeID = ""
}

// Select makes the named collection active.
func (r *Registry) Select(name string) bool {
	c := r.Get(name)
	if c == nil {
		return false
	}
	r.SelectCollection(c)
	return true
}

// SelectCollection makes c active, re-resolves its receiver, and raises
// ActiveCollectionSelected. Selecting the active collection is a no-op.
func (r *Registry) SelectCollection(c *Collection) {
	r.selectCollection(c, r.Active())
}

func (r *Registry) selectCollection(c *Collection, before *Collection) {
	if c == nil || !slices.Contains(r.collections, c) || r.Active() == c {
		return
	}
	r.activeID = c.id
	c.SyncReceiver(r.opts.Atoms)
	r.emitSelected(ActiveCollectionSelected{Before: before, After: c})
}

// RenameActive renames the active collection. Empty names, the current name,
// and names colliding with another collection are ignored.
func (r *Registry) RenameActive(newName string) bool {
	active := r.Active()
	newName = strings.TrimSpace(newName)
	if active == nil || newName == "" || newName == active.name {
		return false
	}
	if r.Collides(newName, active) {
		logging.WarnWithContext(r.logger, "rename rejected", "collection_name_conflict",
			logging.String(logging.FieldCollection, active.name),
			logging.String("requested_name", newName),
			logging.String(logging.FieldErrorHint, "choose a name no other collection uses"),
			logging.String(logging.FieldImpact, "collection keeps its current name"),
		)
		return false
	}
	before := active.name
	active.name = newName
	r.emitNameChanged(ActiveCollectionNameChanged{Before: before, After: newName})
	return true
}

// OnAtomRename retargets collections, and the default receiver of new
// collections, whose receiver atom was renamed.
func (r *Registry) OnAtomRename(oldID, newID string) {
	if r.opts.DefaultReceiverAtom == oldID {
		r.opts.DefaultReceiverAtom = newID
	}
	for _, c := range r.collections {
		if c.atomID != oldID {
			continue
		}
		c.atomID = newID
		c.SyncReceiver(r.opts.Atoms)
	}
}

// SyncReceivers re-resolves the receiver of every collection.
func (r *Registry) SyncReceivers() {
	for _, c := range r.collections {
		c.SyncReceiver(r.opts.Atoms)
	}
}

// Active returns the active collection, or nil before Init.
func (r *Registry) Active() *Collection {
	if r.activeID == "" {
		return nil
	}
	for _, c := range r.collections {
		if c.id == r.activeID {
			return c
		}
	}
	return nil
}

// Get returns the named collection.
func (r *Registry) Get(name string) *Collection {
	if idx := r.indexOf(name); idx >= 0 {
		return r.collections[idx]
	}
	return nil
}

// Collections returns the collections in creation order.
func (r *Registry) Collections() []*Collection { return slices.Clone(r.collections) }

// Names returns the collection names in creation order. This is the choice
// list offered to users.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collections))
	for _, c := range r.collections {
		names = append(names, c.name)
	}
	return names
}

// Arrange reorders collections to follow names. Collections not listed keep
// their relative order after the listed ones.
func (r *Registry) Arrange(names []string) {
	rank := func(c *Collection) int {
		if i := slices.Index(names, c.name); i >= 0 {
			return i
		}
		return len(names)
	}
	slices.SortStableFunc(r.collections, func(a, b *Collection) int {
		return cmp.Compare(rank(a), rank(b))
	})
}

// Len returns the number of collections.
func (r *Registry) Len() int { return len(r.collections) }

// Enable enables the named collection.
func (r *Registry) Enable(name string) {
	if c := r.Get(name); c != nil {
		c.SetEnabled(true)
	}
}

// Disable disables the named collection.
func (r *Registry) Disable(name string) {
	if c := r.Get(name); c != nil {
		c.SetEnabled(false)
	}
}

// EnableAll enables every collection.
func (r *Registry) EnableAll() {
	for _, c := range r.collections {
		c.SetEnabled(true)
	}
}

// DisableAll disables every collection.
func (r *Registry) DisableAll() {
	for _, c := range r.collections {
		c.SetEnabled(false)
	}
}

// AddClipsToActive adds clips to the active collection and raises a single
// ActiveCollectionUpdated event.
func (r *Registry) AddClipsToActive(clips ...*clip.Clip) int {
	active := r.Active()
	if active == nil {
		return 0
	}
	added := 0
	for _, cl := range clips {
		if active.Add(cl) {
			added++
		}
	}
	r.NotifyActiveUpdated()
	return added
}

// RemoveClipFromActive removes a clip from the active collection.
func (r *Registry) RemoveClipFromActive(cl *clip.Clip) bool {
	active := r.Active()
	if active == nil || !active.Remove(cl) {
		return false
	}
	r.NotifyActiveUpdated()
	return true
}

// ClearActive empties the active collection.
func (r *Registry) ClearActive() {
	active := r.Active()
	if active == nil {
		return
	}
	active.Clear()
	r.NotifyActiveUpdated()
}

// NotifyActiveUpdated raises ActiveCollectionUpdated for the active collection.
func (r *Registry) NotifyActiveUpdated() {
	if active := r.Active(); active != nil {
		r.emitUpdated(ActiveCollectionUpdated{Collection: active})
	}
}

// RemoveSourceEverywhere drops a clip id from every collection and returns
// how many collections changed.
func (r *Registry) RemoveSourceEverywhere(sourceID string) int {
	changed := 0
	for _, c := range r.collections {
		if c.RemoveSource(sourceID) {
			changed++
		}
	}
	return changed
}

// PlayRandomIn plays or queues a random clip from the named collection.
func (r *Registry) PlayRandomIn(name string, queueOnly bool) bool {
	c := r.Get(name)
	if c == nil {
		return false
	}
	return c.PlayRandom(queueOnly)
}

// PlayRandomActive plays or queues a random clip from the active collection.
func (r *Registry) PlayRandomActive(queueOnly bool) bool {
	active := r.Active()
	if active == nil {
		return false
	}
	return active.PlayRandom(queueOnly)
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.collections, func(c *Collection) bool { return c.name == name })
}

func (r *Registry) availableDefaultName() string {
	name := DefaultNameBase
	for i := 2; r.Collides(name, nil); i++ {
		name = DefaultNameBase + strconv.Itoa(i)
	}
	return name
}
