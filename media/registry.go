package media

// Registry owns every Item seen across the document's lifetime,
// mirroring the original's append-only mediaItems list: items are never
// removed, only their playback provider is dropped and later recreated.
type Registry struct {
	items []*Item
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Items returns every item the registry has ever created.
func (r *Registry) Items() []*Item { return r.items }

// find returns the existing item matching a, if any.
func (r *Registry) find(a Annotation) *Item {
	for _, it := range r.items {
		if it.Annotation.Equal(a) {
			return it
		}
	}
	return nil
}

// SyncPage loads the media annotations present on page, reusing an
// existing item (and widening its page set) when one already matches,
// or creating a new item and a provider for it otherwise. It returns
// the items now present on page, in annotation order, for the scene to
// add/show. newPlayer is only invoked for items without a provider yet.
func (r *Registry) SyncPage(page int, annotations []Annotation, newPlayer func(Annotation) Player) []*Item {
	out := make([]*Item, 0, len(annotations))
	for _, a := range annotations {
		it := r.find(a)
		if it == nil {
			it = NewItem(a, page, newPlayer)
			r.items = append(r.items, it)
		} else {
			it.InsertPage(page)
			it.CreateProvider(newPlayer)
		}
		out = append(out, it)
	}
	return out
}

// Evict drops the playback provider of every item that does not appear
// on any of page, page-1, page-2, or lookaheadPage, matching the
// original's SlideScene::postRendering cleanup (lookaheadPage is the
// next page the navigation direction is about to show, giving the
// cache "one level of cached look-ahead"). A registry holding two items
// or fewer is left untouched.
func (r *Registry) Evict(page, lookaheadPage int) {
	if len(r.items) <= 2 {
		return
	}
	for _, it := range r.items {
		if len(it.pages) == 0 {
			it.DeleteProvider()
			continue
		}
		if it.keptAlive(page, lookaheadPage) {
			continue
		}
		it.DeleteProvider()
	}
}

// keptAlive reports whether it appears on any page in the kept-alive
// window {page-2, page-1, page, lookaheadPage}.
func (it *Item) keptAlive(page, lookaheadPage int) bool {
	for _, p := range []int{page, page - 1, page - 2, lookaheadPage} {
		if _, ok := it.pages[p]; ok {
			return true
		}
	}
	return false
}
