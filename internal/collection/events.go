package collection

// CollectionAdded is raised after a collection joins the registry.
type CollectionAdded struct {
	Name       string
	Collection *Collection
}

// CollectionRemoved is raised after a collection leaves the registry.
type CollectionRemoved struct {
	Name string
}

// ActiveCollectionSelected is raised when the active collection changes.
// Before is nil when nothing was active. When the active collection was
// removed, Before is that removed collection, no longer in the registry.
type ActiveCollectionSelected struct {
	Before *Collection
	After  *Collection
}

// ActiveCollectionNameChanged is raised after the active collection is renamed.
type ActiveCollectionNameChanged struct {
	Before string
	After  string
}

// ActiveCollectionUpdated is raised after the active collection's members or
// settings change.
type ActiveCollectionUpdated struct {
	Collection *Collection
}

type observers struct {
	added       []func(CollectionAdded)
	removed     []func(CollectionRemoved)
	selected    []func(ActiveCollectionSelected)
	nameChanged []func(ActiveCollectionNameChanged)
	updated     []func(ActiveCollectionUpdated)
}

// OnCollectionAdded subscribes fn to CollectionAdded events.
func (r *Registry) OnCollectionAdded(fn func(CollectionAdded)) {
	if fn != nil {
		r.obs.added = append(r.obs.added, fn)
	}
}

// OnCollectionRemoved subscribes fn to CollectionRemoved events.
func (r *Registry) OnCollectionRemoved(fn func(CollectionRemoved)) {
	if fn != nil {
		r.obs.removed = append(r.obs.removed, fn)
	}
}

// OnActiveCollectionSelected subscribes fn to ActiveCollectionSelected events.
func (r *Registry) OnActiveCollectionSelected(fn func(ActiveCollectionSelected)) {
	if fn != nil {
		r.obs.selected = append(r.obs.selected, fn)
	}
}

// OnActiveCollectionNameChanged subscribes fn to ActiveCollectionNameChanged events.
func (r *Registry) OnActiveCollectionNameChanged(fn func(ActiveCollectionNameChanged)) {
	if fn != nil {
		r.obs.nameChanged = append(r.obs.nameChanged, fn)
	}
}

// OnActiveCollectionUpdated subscribes fn to ActiveCollectionUpdated events.
func (r *Registry) OnActiveCollectionUpdated(fn func(ActiveCollectionUpdated)) {
	if fn != nil {
		r.obs.updated = append(r.obs.updated, fn)
	}
}

func (r *Registry) emitAdded(ev CollectionAdded) {
	for _, fn := range r.obs.added {
		fn(ev)
	}
}

func (r *Registry) emitRemoved(ev CollectionRemoved) {
	for _, fn := range r.obs.removed {
		fn(ev)
	}
}

func (r *Registry) emitSelected(ev ActiveCollectionSelected) {
	for _, fn := range r.obs.selected {
		fn(ev)
	}
}

func (r *Registry) emitNameChanged(ev ActiveCollectionNameChanged) {
	for _, fn := range r.obs.nameChanged {
		fn(ev)
	}
}

func (r *Registry) emitUpdated(ev ActiveCollectionUpdated) {
	for _, fn := range r.obs.updated {
		fn(ev)
	}
}
