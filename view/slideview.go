package view

import (
	"image"

	"github.com/slidepresenter/engine/cache"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/scene"
)

// EnlargedResult is one completed magnifier render, posted back to
// the UI thread per §5's "Enlarged-page renderer ... posts the
// resulting bytes back to the owner" ordering rule.
type EnlargedResult struct {
	Page  int
	Width int
	Image image.Image
}

// SlideView hosts one viewport's fit state, its rendering cache, and
// the magnifier's enlarged-render plumbing for a single SlideScene.
// Per §5, the magnifier uses its own renderer rather than the page
// cache, since it renders at a resolution the cache was never
// configured for: one outstanding request at a time, coalesced by
// page, independent of the cache's own worker.
type SlideView struct {
	Scene     *scene.SlideScene
	Viewport  Viewport
	Cache     *cache.Cache
	Renderer  cache.Renderer
	PageWidth float32

	// Ready delivers finished enlarged renders; ApplyReady drains it
	// on the UI thread, since PixmapGraphicsItem is confined to the
	// scene's owning thread per §5.
	Ready chan EnlargedResult

	enlarge enlarger
	sliders []*MediaSlider
}

// NewSlideView creates a view bound to s, wiring itself as s's
// magnifier requester. r serves both the background cache and the
// magnifier's direct enlarged renders.
func NewSlideView(s *scene.SlideScene, c *cache.Cache, r cache.Renderer, pageWidth float32) *SlideView {
	v := &SlideView{Scene: s, Cache: c, Renderer: r, PageWidth: pageWidth, Ready: make(chan EnlargedResult, 1)}
	s.SetMagnifierRequester(v)
	return v
}

// Resize refits the viewport and re-requests the current page's
// background at the new resolution.
func (v *SlideView) Resize(viewSizePx geom.Point) {
	v.Viewport.Resize(viewSizePx)
	if v.Cache != nil {
		v.Cache.ChangeResolution(v.Viewport.Resolution)
		v.Cache.UpdateCache(v.Scene.Page)
	}
}

// RequestEnlarged implements scene.MagnifierRequester: it checks
// whether the scene's background pixmap already has a variant at or
// above the width a zoom-z magnifier needs and, if not, starts a
// coalesced non-blocking render through the view's own Renderer.
func (v *SlideView) RequestEnlarged(page int, zoom float32) {
	need := int(zoom*v.Viewport.Resolution*v.PageWidth + 0.5)
	if v.Scene.Background != nil {
		if best, ok := v.Scene.Background.Best(need); ok && best.Width >= need {
			return
		}
	}
	resolution := zoom * v.Viewport.Resolution
	v.enlarge.request(page, func() (image.Image, error) {
		return v.Renderer.Render(page, resolution)
	}, func(img image.Image) {
		select {
		case v.Ready <- EnlargedResult{Page: page, Width: img.Bounds().Dx(), Image: img}:
		default:
		}
	})
}

// ApplyReady installs one pending enlarged render onto the scene's
// background pixmap, if any is waiting. Callers invoke this from the
// UI thread's event loop.
func (v *SlideView) ApplyReady() bool {
	select {
	case r := <-v.Ready:
		if v.Scene.Background != nil {
			v.Scene.Background.AddResolution(r.Width, r.Image)
		}
		return true
	default:
		return false
	}
}
