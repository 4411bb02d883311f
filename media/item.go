package media

import "github.com/slidepresenter/engine/geom"

// endEpsilon is how close to the end/start of a track counts as
// "arrived" for loop/palindrome bookkeeping.
const endEpsilon = 0.05

// Item is one playable media item, shared across every page it appears
// on. Its playback provider is created on demand and dropped again by
// the registry's eviction pass; Item itself persists for the life of
// the document, matching the original's append-only mediaItems list.
type Item struct {
	Annotation Annotation

	pages  map[int]struct{}
	player Player

	// direction drives ModePalindrome's simulated reverse phase: 1 while
	// playing forward, -1 while unwinding back to the start.
	direction int8
}

// NewItem creates an item for annotation, first seen on page, and
// creates its playback provider immediately.
func NewItem(a Annotation, page int, newPlayer func(Annotation) Player) *Item {
	it := &Item{Annotation: a, pages: map[int]struct{}{page: {}}, direction: 1}
	it.CreateProvider(newPlayer)
	return it
}

// InsertPage records that this item also appears on page.
func (it *Item) InsertPage(page int) { it.pages[page] = struct{}{} }

// Pages returns the set of pages this item is known to appear on.
func (it *Item) Pages() []int {
	out := make([]int, 0, len(it.pages))
	for p := range it.pages {
		out = append(out, p)
	}
	return out
}

// HasProvider reports whether a playback provider is currently loaded.
func (it *Item) HasProvider() bool { return it.player != nil }

// CreateProvider builds a playback provider via newPlayer if one is not
// already loaded.
func (it *Item) CreateProvider(newPlayer func(Annotation) Player) {
	if it.player != nil || newPlayer == nil {
		return
	}
	it.player = newPlayer(it.Annotation)
	if it.player != nil {
		it.player.SetVolume(it.Annotation.Volume)
	}
}

// DeleteProvider drops the playback provider to free its resources,
// per §5's "playback provider is deleted" eviction rule.
func (it *Item) DeleteProvider() { it.player = nil }

// Play starts or resumes playback, a no-op without a provider.
func (it *Item) Play() {
	if it.player != nil {
		it.player.Play()
	}
}

// Pause pauses playback, a no-op without a provider.
func (it *Item) Pause() {
	if it.player != nil {
		it.player.Pause()
	}
}

// TogglePlayPause implements scene.MediaItem: play if paused, pause if
// playing, per §4's "no tool click toggles play/pause" rule.
func (it *Item) TogglePlayPause() {
	if it.player == nil {
		return
	}
	if it.player.IsPlaying() {
		it.Pause()
	} else {
		it.Play()
	}
}

// IsPlaying reports whether the provider is currently playing.
func (it *Item) IsPlaying() bool { return it.player != nil && it.player.IsPlaying() }

// SetMuted mutes or unmutes this item, a no-op without a provider.
func (it *Item) SetMuted(mute bool) {
	if it.player != nil {
		it.player.SetMuted(mute)
	}
}

// SceneRect implements scene.MediaItem and view.SliderMedia.
func (it *Item) SceneRect() geom.Rectangle { return it.Annotation.Rect }

// Duration implements view.SliderMedia.
func (it *Item) Duration() float64 {
	if it.player == nil {
		return 0
	}
	return it.player.Duration()
}

// Position implements view.SliderMedia.
func (it *Item) Position() float64 {
	if it.player == nil {
		return 0
	}
	return it.player.Position()
}

// Seek implements view.SliderMedia.
func (it *Item) Seek(t float64) {
	if it.player != nil {
		it.player.Seek(t)
	}
}

// Tick drives the loop/palindrome bookkeeping the external player
// doesn't implement itself. Callers invoke it once per UI tick for
// every item with a provider currently playing.
func (it *Item) Tick(dt float64) {
	if it.player == nil {
		return
	}
	switch it.Annotation.Mode {
	case ModeRepeat:
		d := it.player.Duration()
		if d > 0 && it.player.Position() >= d-endEpsilon {
			it.player.Seek(0)
			it.player.Play()
		}
	case ModePalindrome:
		it.tickPalindrome(dt)
	}
}

// tickPalindrome implements §9 Open Question 1's decided semantics:
// play forward, play reverse, repeat. The provider has no native
// reverse transport, so the backward phase is simulated by pausing
// forward playback and stepping Position back by dt each tick.
func (it *Item) tickPalindrome(dt float64) {
	d := it.player.Duration()
	if d <= 0 {
		return
	}
	switch it.direction {
	case 1:
		if it.player.Position() >= d-endEpsilon {
			it.direction = -1
			it.player.Pause()
		}
	case -1:
		pos := it.player.Position() - dt
		if pos <= endEpsilon {
			it.direction = 1
			it.player.Seek(0)
			it.player.Play()
			return
		}
		it.player.Seek(pos)
	}
}
