package actions

import (
	"log/slog"
	"sort"

	"audiomate/internal/collection"
	"audiomate/internal/host"
	"audiomate/internal/logging"
	"audiomate/internal/textutil"
)

const (
	// PlayActiveAction plays a random clip from the active collection.
	PlayActiveAction = "PlayRandomClipFromActiveCollection"
	// QueueActiveAction queues a random clip from the active collection.
	QueueActiveAction = "QueueRandomClipFromActiveCollection"

	playPrefix  = "PlayRandomClipFrom"
	queuePrefix = "QueueRandomClipFrom"
)

// PlayActionName returns the play action name for a collection.
func PlayActionName(collectionName string) string {
	return textutil.TrimAll(playPrefix + collectionName)
}

// QueueActionName returns the queue action name for a collection.
func QueueActionName(collectionName string) string {
	return textutil.TrimAll(queuePrefix + collectionName)
}

// Player plays or queues random clips by collection.
type Player interface {
	PlayRandomIn(name string, queueOnly bool) bool
	PlayRandomActive(queueOnly bool) bool
}

// Binding is the pair of host actions owned by one collection.
type Binding struct {
	CollectionName string
	Play           host.ActionHandle
	Queue          host.ActionHandle
}

// Registry maps collection names to their registered host actions.
type Registry struct {
	host     host.ActionHost
	player   Player
	bindings map[string]Binding
	global   []host.ActionHandle
	logger   *slog.Logger
}

// New creates an action registry bound to the host action table.
func New(actionHost host.ActionHost, player Player, logger *slog.Logger) *Registry {
	return &Registry{
		host:     actionHost,
		player:   player,
		bindings: make(map[string]Binding),
		logger:   logging.NewComponentLogger(logger, "actions"),
	}
}

// Attach subscribes the registry to collection lifecycle events.
func (r *Registry) Attach(reg *collection.Registry) {
	reg.OnCollectionAdded(func(ev collection.CollectionAdded) { r.OnCollectionAdded(ev.Name) })
	reg.OnCollectionRemoved(func(ev collection.CollectionRemoved) { r.OnCollectionRemoved(ev.Name) })
	reg.OnActiveCollectionNameChanged(func(ev collection.ActiveCollectionNameChanged) {
		r.OnCollectionRenamed(ev.Before, ev.After)
	})
}

// RegisterGlobal registers the active-collection actions once.
func (r *Registry) RegisterGlobal() {
	if len(r.global) > 0 {
		return
	}
	r.global = []host.ActionHandle{
		r.host.RegisterAction(PlayActiveAction, func() { r.player.PlayRandomActive(false) }),
		r.host.RegisterAction(QueueActiveAction, func() { r.player.PlayRandomActive(true) }),
	}
}

// OnCollectionAdded registers the play and queue actions for a collection.
// Names that are already bound are skipped.
func (r *Registry) OnCollectionAdded(name string) {
	if name == "" {
		r.logger.Debug("skipping actions for empty collection name")
		return
	}
	if _, ok := r.bindings[name]; ok {
		return
	}
	binding := Binding{
		CollectionName: name,
		Play:           r.host.RegisterAction(PlayActionName(name), func() { r.player.PlayRandomIn(name, false) }),
		Queue:          r.host.RegisterAction(QueueActionName(name), func() { r.player.PlayRandomIn(name, true) }),
	}
	r.bindings[name] = binding
	r.logger.Debug("actions registered",
		logging.String(logging.FieldCollection, name),
		logging.String(logging.FieldAction, binding.Play.Name),
	)
}

// OnCollectionRemoved deregisters both actions of a collection.
func (r *Registry) OnCollectionRemoved(name string) {
	binding, ok := r.bindings[name]
	if !ok {
		return
	}
	r.host.DeregisterAction(binding.Play)
	r.host.DeregisterAction(binding.Queue)
	delete(r.bindings, name)
	r.logger.Debug("actions deregistered", logging.String(logging.FieldCollection, name))
}

// OnCollectionRenamed drops the actions of oldName and registers fresh ones
// under newName.
func (r *Registry) OnCollectionRenamed(oldName, newName string) {
	if oldName == "" || newName == "" {
		return
	}
	if _, ok := r.bindings[oldName]; !ok {
		return
	}
	r.OnCollectionRemoved(oldName)
	r.OnCollectionAdded(newName)
}

// DeregisterAll removes every action this registry registered.
func (r *Registry) DeregisterAll() {
	for name := range r.bindings {
		r.OnCollectionRemoved(name)
	}
	for _, handle := range r.global {
		r.host.DeregisterAction(handle)
	}
	r.global = nil
}

// Binding returns the actions bound to a collection.
func (r *Registry) Binding(name string) (Binding, bool) {
	b, ok := r.bindings[name]
	return b, ok
}

// Names lists every action name this registry owns, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bindings)*2+len(r.global))
	for _, h := range r.global {
		names = append(names, h.Name)
	}
	for _, b := range r.bindings {
		names = append(names, b.Play.Name, b.Queue.Name)
	}
	sort.Strings(names)
	return names
}
