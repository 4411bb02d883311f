package container

import "sync"

// PagePart identifies which horizontal slice of a physical PDF page a
// container holds annotations for, per GLOSSARY's "Page-part" entry
// (notes-on-one-half setups split a single page into independent left
// and right logical slides).
type PagePart uint8

const (
	PartFull PagePart = iota
	PartLeft
	PartRight
)

// OverlayMode controls whether an overlay page (one sharing its label
// with the page before it, per GLOSSARY's "Overlay" entry) gets its
// own PathContainer or shares the base page's, so annotations drawn on
// one step of a build also appear on the others.
type OverlayMode uint8

const (
	// OverlaySeparate gives every page, overlay or not, its own
	// container.
	OverlaySeparate OverlayMode = iota
	// OverlayShared collapses an overlay page's key to its base
	// page's, per original_source's pathoverlay.cpp behavior.
	OverlayShared
)

// Key identifies one PathContainer slot in a Registry.
type Key struct {
	Page int
	Part PagePart
}

// OverlayResolver maps a page index to the base page it overlays, or
// to itself if it isn't an overlay. It is supplied by the PDF backend
// (§6's overlays_shifted) rather than computed here, since only the
// backend's page-label comparison knows which pages share a label.
type OverlayResolver func(page int) (basePage int)

// Registry is the global map from (page, page-part) to the
// PathContainer holding that slide's annotations, per §4.4's "a
// pointer to the current PathContainer (resolved on page change from
// a global registry keyed by (page, page-part))".
type Registry struct {
	mu      sync.Mutex
	mode    OverlayMode
	resolve OverlayResolver
	byKey   map[Key]*PathContainer
	hooks   SceneHooks
}

// NewRegistry creates an empty registry. resolve may be nil, in which
// case OverlayShared behaves like OverlaySeparate (no overlay
// information available).
func NewRegistry(mode OverlayMode, resolve OverlayResolver) *Registry {
	return &Registry{
		mode:    mode,
		resolve: resolve,
		byKey:   map[Key]*PathContainer{},
	}
}

// SetHooks installs the scene-visibility callbacks every container the
// registry creates from now on will use.
func (r *Registry) SetHooks(h SceneHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = h
}

// SetOverlayMode changes how future key lookups collapse overlay
// pages; it does not retroactively merge or split already-created
// containers.
func (r *Registry) SetOverlayMode(mode OverlayMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
}

// keyFor applies overlay collapsing to the raw (page, part) pair.
func (r *Registry) keyFor(page int, part PagePart) Key {
	if r.mode == OverlayShared && r.resolve != nil {
		page = r.resolve(page)
	}
	return Key{Page: page, Part: part}
}

// Get returns the container for (page, part), creating an empty one on
// first access, and reports whether it already existed.
func (r *Registry) Get(page int, part PagePart) (c *PathContainer, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.keyFor(page, part)
	if c, ok := r.byKey[key]; ok {
		return c, true
	}
	c = New()
	c.SetHooks(r.hooks)
	r.byKey[key] = c
	return c, false
}

// Has reports whether a container has already been created for
// (page, part), without creating one.
func (r *Registry) Has(page int, part PagePart) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byKey[r.keyFor(page, part)]
	return ok
}

// Delete drops the container for (page, part) entirely, releasing
// every item it owns via ResetHistory first.
func (r *Registry) Delete(page int, part PagePart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.keyFor(page, part)
	if c, ok := r.byKey[key]; ok {
		c.ResetHistory()
		delete(r.byKey, key)
	}
}

// ClearAllHistory calls ClearHistory(keep) on every registered
// container, per §4.4's per-mutation history trimming extended to the
// whole document (used e.g. when history_length_visible_slides vs.
// history_length_hidden_slides differ and the caller walks the
// document applying the right limit per slide).
func (r *Registry) ClearAllHistory(keep int) {
	r.mu.Lock()
	containers := make([]*PathContainer, 0, len(r.byKey))
	for _, c := range r.byKey {
		containers = append(containers, c)
	}
	r.mu.Unlock()
	for _, c := range containers {
		c.ClearHistory(keep)
	}
}

// Keys returns every (page, part) currently holding a container, in
// no particular order.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Key, 0, len(r.byKey))
	for k := range r.byKey {
		out = append(out, k)
	}
	return out
}
