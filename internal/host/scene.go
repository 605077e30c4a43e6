package host

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type sceneAtom struct {
	info      AtomInfo
	receivers map[string]Receiver
}

type sceneAction struct {
	handle ActionHandle
	fn     func()
}

// Scene is an in-memory host: atoms with receiver nodes, a named action table,
// trigger sources, and a loading flag.
type Scene struct {
	name     string
	atoms    map[string]*sceneAtom
	order    []string
	actions  map[string]sceneAction
	triggers map[string]*TriggerSource
	loading  bool
	renames  []func(oldID, newID string)
}

// NewScene creates an empty scene.
func NewScene(name string) *Scene {
	return &Scene{
		name:     name,
		atoms:    make(map[string]*sceneAtom),
		actions:  make(map[string]sceneAction),
		triggers: make(map[string]*TriggerSource),
	}
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// AddAtom declares an atom. Declaring an existing uid updates its metadata
// and keeps attached receivers.
func (s *Scene) AddAtom(info AtomInfo) {
	uid := strings.TrimSpace(info.UID)
	if uid == "" {
		return
	}
	info.UID = uid
	if existing, ok := s.atoms[uid]; ok {
		existing.info = info
		return
	}
	s.atoms[uid] = &sceneAtom{info: info, receivers: make(map[string]Receiver)}
	s.order = append(s.order, uid)
}

// AttachReceiver binds a live receiver to an atom node. A node becomes
// resolvable only once a receiver is attached.
func (s *Scene) AttachReceiver(atomUID, nodeID string, r Receiver) error {
	atom, ok := s.atoms[atomUID]
	if !ok {
		return fmt.Errorf("attach receiver: unknown atom %q", atomUID)
	}
	if r == nil {
		return fmt.Errorf("attach receiver: nil receiver for %s/%s", atomUID, nodeID)
	}
	atom.receivers[nodeID] = r
	if !slices.Contains(atom.info.Nodes, nodeID) {
		atom.info.Nodes = append(atom.info.Nodes, nodeID)
	}
	return nil
}

// Resolve implements AtomLookup.
func (s *Scene) Resolve(atomID, nodeID string) (Receiver, bool) {
	atom, ok := s.atoms[atomID]
	if !ok {
		return nil, false
	}
	r, ok := atom.receivers[nodeID]
	return r, ok
}

// Atom implements AtomDirectory.
func (s *Scene) Atom(uid string) (AtomInfo, bool) {
	atom, ok := s.atoms[uid]
	if !ok {
		return AtomInfo{}, false
	}
	info := atom.info
	info.Nodes = slices.Clone(atom.info.Nodes)
	return info, true
}

// Atoms returns atom metadata in declaration order.
func (s *Scene) Atoms() []AtomInfo {
	out := make([]AtomInfo, 0, len(s.order))
	for _, uid := range s.order {
		info, _ := s.Atom(uid)
		out = append(out, info)
	}
	return out
}

// OnAtomRename registers a listener invoked after an atom is renamed.
func (s *Scene) OnAtomRename(fn func(oldID, newID string)) {
	if fn != nil {
		s.renames = append(s.renames, fn)
	}
}

// RenameAtom renames an atom and notifies rename listeners in registration order.
func (s *Scene) RenameAtom(oldID, newID string) error {
	oldID = strings.TrimSpace(oldID)
	newID = strings.TrimSpace(newID)
	if newID == "" {
		return fmt.Errorf("rename atom: new uid is empty")
	}
	atom, ok := s.atoms[oldID]
	if !ok {
		return fmt.Errorf("rename atom: unknown atom %q", oldID)
	}
	if oldID == newID {
		return nil
	}
	if _, exists := s.atoms[newID]; exists {
		return fmt.Errorf("rename atom: uid %q already in use", newID)
	}
	delete(s.atoms, oldID)
	atom.info.UID = newID
	s.atoms[newID] = atom
	for i, uid := range s.order {
		if uid == oldID {
			s.order[i] = newID
		}
	}
	for _, fn := range s.renames {
		fn(oldID, newID)
	}
	return nil
}

// SetLoading toggles the scene loading flag.
func (s *Scene) SetLoading(loading bool) { s.loading = loading }

// Loading implements LoadState.
func (s *Scene) Loading() bool { return s.loading }

// RegisterAction implements ActionHost. Registering a name that already
// exists replaces the previous registration.
func (s *Scene) RegisterAction(name string, fn func()) ActionHandle {
	handle := ActionHandle{ID: uuid.NewString(), Name: name}
	s.actions[name] = sceneAction{handle: handle, fn: fn}
	return handle
}

// DeregisterAction implements ActionHost. Stale handles are ignored.
func (s *Scene) DeregisterAction(handle ActionHandle) {
	current, ok := s.actions[handle.Name]
	if !ok || current.handle.ID != handle.ID {
		return
	}
	delete(s.actions, handle.Name)
}

// InvokeAction runs the named action. It reports whether the action exists.
func (s *Scene) InvokeAction(name string) bool {
	action, ok := s.actions[name]
	if !ok {
		return false
	}
	if action.fn != nil {
		action.fn()
	}
	return true
}

// ActionNames lists registered action names sorted alphabetically.
func (s *Scene) ActionNames() []string {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddTriggerSource declares a trigger source. Existing sources are kept.
func (s *Scene) AddTriggerSource(id string) *TriggerSource {
	if src, ok := s.triggers[id]; ok {
		return src
	}
	src := &TriggerSource{ID: id}
	s.triggers[id] = src
	return src
}

// TriggerSource implements TriggerHost.
func (s *Scene) TriggerSource(id string) (*TriggerSource, bool) {
	src, ok := s.triggers[id]
	return src, ok
}

// TriggerSources returns all trigger sources sorted by id.
func (s *Scene) TriggerSources() []*TriggerSource {
	out := make([]*TriggerSource, 0, len(s.triggers))
	for _, src := range s.triggers {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadTriggerSources replaces the entries of known trigger sources with the
// provided snapshot. Sources the scene does not declare are skipped.
func (s *Scene) LoadTriggerSources(sources []*TriggerSource) int {
	loaded := 0
	for _, src := range sources {
		if src == nil {
			continue
		}
		current, ok := s.triggers[src.ID]
		if !ok {
			continue
		}
		current.Enabled = src.Enabled
		current.Start = slices.Clone(src.Start)
		current.End = slices.Clone(src.End)
		loaded++
	}
	return loaded
}

// FireTrigger invokes every bound entry of the trigger phase and returns how
// many actions ran.
func (s *Scene) FireTrigger(id string, phase Phase) (int, error) {
	src, ok := s.triggers[id]
	if !ok {
		return 0, fmt.Errorf("fire trigger: unknown trigger source %q", id)
	}
	fired := 0
	for _, entry := range src.Entries(phase) {
		if entry == nil || entry.ReceiverStoreID == "" {
			continue
		}
		if s.InvokeAction(entry.ReceiverTargetName) {
			fired++
		}
	}
	return fired, nil
}
