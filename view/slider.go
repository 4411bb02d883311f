package view

import "github.com/slidepresenter/engine/geom"

// SliderMedia is the narrow surface a media item exposes to host a
// playback slider; only media kinds with a timeline (video/audio)
// implement it, per §4.7's "media items that opt in".
type SliderMedia interface {
	SceneRect() geom.Rectangle
	Duration() float64
	Position() float64
	Seek(t float64)
}

// MediaSlider is the on-screen scrubber for one media item.
type MediaSlider struct {
	Media    SliderMedia
	Dragging bool
}

// Sliders returns the sliders currently hosted for this view.
func (v *SlideView) Sliders() []*MediaSlider { return v.sliders }

// SyncSliders rebuilds the hosted slider list from the media items
// present on the current page, keeping one slider per opted-in item.
func (v *SlideView) SyncSliders(items []SliderMedia) {
	v.sliders = v.sliders[:0]
	for _, m := range items {
		v.sliders = append(v.sliders, &MediaSlider{Media: m})
	}
}

const sliderBarHeight = 4

// Rect returns the slider's pixel-space rect: a thin strip along the
// bottom edge of the media item's scene rect.
func (s *MediaSlider) Rect(vp Viewport) geom.Rectangle {
	r := s.Media.SceneRect()
	sceneBar := geom.Rectangle{
		Min: geom.Pt(r.Min.X, r.Max.Y-sliderBarHeight),
		Max: geom.Pt(r.Max.X, r.Max.Y),
	}
	return geom.Rectangle{Min: vp.ToPixels(sceneBar.Min), Max: vp.ToPixels(sceneBar.Max)}
}

// Fraction returns the current playback position as a 0..1 fraction
// of the bar to fill.
func (s *MediaSlider) Fraction() float32 {
	d := s.Media.Duration()
	if d <= 0 {
		return 0
	}
	f := s.Media.Position() / d
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return float32(f)
}

// SeekTo converts a pixel x coordinate within the slider's rect into
// a seek position and applies it.
func (s *MediaSlider) SeekTo(vp Viewport, pixelX float32) {
	r := s.Rect(vp)
	if r.Dx() <= 0 {
		return
	}
	frac := (pixelX - r.Min.X) / r.Dx()
	switch {
	case frac < 0:
		frac = 0
	case frac > 1:
		frac = 1
	}
	s.Media.Seek(float64(frac) * s.Media.Duration())
}
