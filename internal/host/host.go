package host

// Asset is an immutable audio asset known to the catalog.
type Asset struct {
	ID       string
	Name     string
	Path     string
	Category string
}

// AssetLookup resolves asset identifiers against the source catalog.
type AssetLookup interface {
	Resolve(id string) (Asset, bool)
	// EnumerateAvailable lists the assets of a category. The boolean is false
	// while the catalog has not finished indexing.
	EnumerateAvailable(category string) ([]Asset, bool)
}

// Receiver is an audio output target that accepts playback requests.
type Receiver interface {
	PlayNow(Asset)
	PlayNowClearQueue(Asset)
	PlayIfClear(Asset)
	Enqueue(Asset)
}

// AtomLookup resolves an (atom, node) pair to a live receiver.
type AtomLookup interface {
	Resolve(atomID, nodeID string) (Receiver, bool)
}

// AtomInfo describes a scene atom without exposing its receivers.
type AtomInfo struct {
	UID      string
	Category string
	Type     string
	Nodes    []string
}

// AtomDirectory lists atom metadata used to guess receiving nodes.
type AtomDirectory interface {
	Atom(uid string) (AtomInfo, bool)
}

// ActionHandle identifies a registered host action. The zero value is not a
// valid handle.
type ActionHandle struct {
	ID   string
	Name string
}

// Valid reports whether the handle refers to a registration.
func (h ActionHandle) Valid() bool { return h.ID != "" }

// ActionHost is the host's named action table.
type ActionHost interface {
	RegisterAction(name string, fn func()) ActionHandle
	DeregisterAction(handle ActionHandle)
}

// TriggerHost exposes the named trigger sources of the containing atom.
type TriggerHost interface {
	TriggerSource(id string) (*TriggerSource, bool)
}

// LoadState reports whether the host is still loading a scene.
type LoadState interface {
	Loading() bool
}
