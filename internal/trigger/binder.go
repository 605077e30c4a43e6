package trigger

import (
	"log/slog"
	"sort"

	"audiomate/internal/actions"
	"audiomate/internal/collection"
	"audiomate/internal/host"
	"audiomate/internal/logging"
	"audiomate/internal/textutil"
)

// EntryName returns the trigger entry name for a collider and collection.
func EntryName(collider, collectionName string) string {
	return textutil.TrimAll(collider + ":" + actions.PlayActionName(collectionName))
}

type boundEntry struct {
	triggerID string
	entry     *host.TriggerEntry
}

// Bound describes a trigger entry created or adopted by a Binder.
type Bound struct {
	TriggerID string
	Phase     host.Phase
	Entry     host.TriggerEntry
}

// Binder owns the trigger entries that target this plugin.
type Binder struct {
	host      host.TriggerHost
	storeID   string
	colliders []string
	start     map[string]boundEntry
	end       map[string]boundEntry
	logger    *slog.Logger
}

// New creates a binder. storeID identifies this plugin as the entry receiver;
// colliders lists the trigger sources renames cascade to.
func New(triggerHost host.TriggerHost, storeID string, colliders []string, logger *slog.Logger) *Binder {
	return &Binder{
		host:      triggerHost,
		storeID:   storeID,
		colliders: append([]string(nil), colliders...),
		start:     make(map[string]boundEntry),
		end:       make(map[string]boundEntry),
		logger:    logging.NewComponentLogger(logger, "triggers"),
	}
}

// StoreID returns the receiver store id written into created entries.
func (b *Binder) StoreID() string { return b.storeID }

// Colliders returns the trigger sources renames cascade to.
func (b *Binder) Colliders() []string { return append([]string(nil), b.colliders...) }

// Attach subscribes the binder to active collection renames.
func (b *Binder) Attach(reg *collection.Registry) {
	reg.OnActiveCollectionNameChanged(func(ev collection.ActiveCollectionNameChanged) {
		b.OnCollectionRenamed(ev.Before, ev.After)
	})
}

func (b *Binder) phaseMap(phase host.Phase) map[string]boundEntry {
	if phase == host.PhaseEnd {
		return b.end
	}
	return b.start
}

// Add creates a discrete entry named name on the trigger source triggerID.
// It returns false when the source is unknown or an entry with the same name
// and a receiver already exists under the phase.
func (b *Binder) Add(triggerID, name, receiverStoreID, targetName string, phase host.Phase) (*host.TriggerEntry, bool) {
	b.cleanUp()
	src, ok := b.host.TriggerSource(triggerID)
	if !ok || src == nil {
		logging.WarnWithContext(b.logger, "trigger source not found", "trigger_unresolved",
			logging.String(logging.FieldTrigger, triggerID),
			logging.String(logging.FieldErrorHint, "pick a collider the containing atom exposes"),
			logging.String(logging.FieldImpact, "no trigger entry was created"),
		)
		return nil, false
	}
	if src.HasBoundEntry(phase, name) {
		b.adoptExisting(src, phase, name)
		b.logger.Debug("trigger entry already bound",
			logging.String(logging.FieldTrigger, triggerID),
			logging.String(logging.FieldAction, name),
			logging.String(logging.FieldPhase, string(phase)),
		)
		return nil, false
	}

	entry := src.CreateEntry(phase)
	entry.Name = name
	entry.ReceiverStoreID = receiverStoreID
	entry.ReceiverTargetName = targetName
	src.Enabled = true
	b.phaseMap(phase)[name] = boundEntry{triggerID: triggerID, entry: entry}
	b.logger.Info("trigger entry added",
		logging.String(logging.FieldTrigger, triggerID),
		logging.String(logging.FieldAction, name),
		logging.String(logging.FieldPhase, string(phase)),
	)
	return entry, true
}

// AddForCollection binds the collection's play action to a collider phase.
func (b *Binder) AddForCollection(collider, collectionName string, phase host.Phase) (*host.TriggerEntry, bool) {
	if textutil.TrimAll(collectionName) == "" {
		return nil, false
	}
	return b.Add(collider, EntryName(collider, collectionName), b.storeID, actions.PlayActionName(collectionName), phase)
}

// Update renames a tracked entry and retargets it in place. Unknown names are
// ignored.
func (b *Binder) Update(oldName, newName, newTargetName string, phase host.Phase) bool {
	m := b.phaseMap(phase)
	bound, ok := m[oldName]
	if !ok || bound.entry == nil {
		return false
	}
	bound.entry.Name = newName
	bound.entry.ReceiverTargetName = newTargetName
	delete(m, oldName)
	m[newName] = bound
	b.logger.Debug("trigger entry retargeted",
		logging.String(logging.FieldTrigger, bound.triggerID),
		logging.String(logging.FieldAction, newName),
		logging.String(logging.FieldPhase, string(phase)),
	)
	return true
}

// Remove deletes a tracked entry from its trigger source.
func (b *Binder) Remove(triggerID, name string, phase host.Phase) bool {
	m := b.phaseMap(phase)
	bound, ok := m[name]
	if !ok || bound.triggerID != triggerID {
		return false
	}
	delete(m, name)
	src, ok := b.host.TriggerSource(triggerID)
	if !ok || src == nil || bound.entry == nil {
		return false
	}
	return src.RemoveEntry(phase, bound.entry.ID)
}

// RemoveForCollection removes the collection's play entry from a collider phase.
func (b *Binder) RemoveForCollection(collider, collectionName string, phase host.Phase) bool {
	return b.Remove(collider, EntryName(collider, collectionName), phase)
}

// OnCollectionRenamed retargets the entries of every collider, in both
// phases, from the old collection name to the new one.
func (b *Binder) OnCollectionRenamed(oldName, newName string) {
	if textutil.TrimAll(oldName) == "" || textutil.TrimAll(newName) == "" {
		return
	}
	target := actions.PlayActionName(newName)
	for _, collider := range b.colliders {
		oldEntry := EntryName(collider, oldName)
		newEntry := EntryName(collider, newName)
		b.Update(oldEntry, newEntry, target, host.PhaseStart)
		b.Update(oldEntry, newEntry, target, host.PhaseEnd)
	}
}

// Adopt starts tracking existing entries on the given sources that target
// this plugin, typically after trigger sources were restored from storage.
func (b *Binder) Adopt(sources []*host.TriggerSource) int {
	adopted := 0
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, phase := range []host.Phase{host.PhaseStart, host.PhaseEnd} {
			for _, entry := range src.Entries(phase) {
				if entry == nil || entry.ReceiverStoreID != b.storeID || entry.Name == "" {
					continue
				}
				b.phaseMap(phase)[entry.Name] = boundEntry{triggerID: src.ID, entry: entry}
				adopted++
			}
		}
	}
	return adopted
}

// Bound lists tracked entries sorted by trigger, phase, and name.
func (b *Binder) Bound() []Bound {
	b.cleanUp()
	out := make([]Bound, 0, len(b.start)+len(b.end))
	for _, phase := range []host.Phase{host.PhaseStart, host.PhaseEnd} {
		for _, bound := range b.phaseMap(phase) {
			out = append(out, Bound{TriggerID: bound.triggerID, Phase: phase, Entry: *bound.entry})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TriggerID != out[j].TriggerID {
			return out[i].TriggerID < out[j].TriggerID
		}
		if out[i].Phase != out[j].Phase {
			return out[i].Phase > out[j].Phase
		}
		return out[i].Entry.Name < out[j].Entry.Name
	})
	return out
}

func (b *Binder) adoptExisting(src *host.TriggerSource, phase host.Phase, name string) {
	m := b.phaseMap(phase)
	if _, ok := m[name]; ok {
		return
	}
	for _, entry := range src.Entries(phase) {
		if entry != nil && entry.Name == name && entry.ReceiverStoreID == b.storeID {
			m[name] = boundEntry{triggerID: src.ID, entry: entry}
			return
		}
	}
}

// cleanUp drops tracked entries that no longer exist on their source.
func (b *Binder) cleanUp() {
	for _, phase := range []host.Phase{host.PhaseStart, host.PhaseEnd} {
		m := b.phaseMap(phase)
		for name, bound := range m {
			if bound.entry == nil || !b.present(bound, phase) {
				delete(m, name)
				b.logger.Debug("dropped stale trigger entry", logging.String(logging.FieldAction, name))
			}
		}
	}
}

func (b *Binder) present(bound boundEntry, phase host.Phase) bool {
	src, ok := b.host.TriggerSource(bound.triggerID)
	if !ok || src == nil {
		return false
	}
	for _, entry := range src.Entries(phase) {
		if entry == bound.entry {
			return true
		}
	}
	return false
}
