package cache

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

type fakeRenderer struct {
	mu      sync.Mutex
	calls   int
	w, h    float32
	failing bool
}

func (f *fakeRenderer) PageSize(page int) (float32, float32) { return f.w, f.h }

func (f *fakeRenderer) Render(page int, resolution float32) (image.Image, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	w := int(resolution*f.w + 0.5)
	h := int(resolution*f.h + 0.5)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: byte(page), A: 255})
		}
	}
	return img, nil
}

func newFakeRenderer() *fakeRenderer { return &fakeRenderer{w: 600, h: 800} }

func TestGetRendersSynchronouslyWhenAbsent(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 1.0)
	img, err := c.Get(3)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 600 || img.Bounds().Dy() != 800 {
		t.Fatalf("unexpected render size %v", img.Bounds())
	}
	if r.calls != 1 {
		t.Fatalf("expected exactly one render call, got %d", r.calls)
	}
	if _, ok := c.GetCached(3); !ok {
		t.Fatal("expected the synchronous render to populate the cache")
	}
}

func TestGetCachedMissesWithoutPriorRender(t *testing.T) {
	c := New(newFakeRenderer(), Full, 1.0)
	if _, ok := c.GetCached(0); ok {
		t.Fatal("expected a miss for an unrendered page")
	}
}

func TestChangeResolutionKeepsCacheWhenUnchanged(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 2.0)
	if _, err := c.Get(0); err != nil {
		t.Fatal(err)
	}
	c.ChangeResolution(2.0)
	if _, ok := c.GetCached(0); !ok {
		t.Fatal("expected cache kept when resolution is unchanged")
	}
}

func TestChangeResolutionInvalidatesCache(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 2.0)
	if _, err := c.Get(0); err != nil {
		t.Fatal(err)
	}
	c.ChangeResolution(3.0)
	if _, ok := c.GetCached(0); ok {
		t.Fatal("expected cache cleared after a resolution change")
	}
	if _, err := c.Get(0); err != nil {
		t.Fatal(err)
	}
	if r.calls != 2 {
		t.Fatalf("expected a re-render after invalidation, got %d calls", r.calls)
	}
}

func TestClearPageRemovesOnlyThatPage(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 1.0)
	c.Get(0)
	c.Get(1)
	c.ClearPage(0)
	if _, ok := c.GetCached(0); ok {
		t.Fatal("expected page 0 cleared")
	}
	if _, ok := c.GetCached(1); !ok {
		t.Fatal("expected page 1 to survive")
	}
}

func TestTotalBytesTracksAndFiresCallback(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 1.0)
	var delta int64
	c.OnSizeChanged = func(d int64) { delta += d }
	c.Get(0)
	if c.TotalBytes() == 0 {
		t.Fatal("expected nonzero cache footprint after a render")
	}
	if delta != c.TotalBytes() {
		t.Fatalf("expected the size-changed callback to track total bytes, got delta=%d total=%d", delta, c.TotalBytes())
	}
	c.ClearAll()
	if c.TotalBytes() != 0 {
		t.Fatal("expected zero bytes after ClearAll")
	}
}

func TestUpdateCacheRendersInBackground(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 1.0)
	c.Start()
	defer c.Stop()
	c.UpdateCache(5)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.GetCached(5); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected background render to populate the cache within the deadline")
}

func TestUpdateCacheIsNoOpWhenAlreadyCached(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, Full, 1.0)
	c.Start()
	defer c.Stop()
	c.Get(2)
	calls := r.calls
	c.UpdateCache(2)
	time.Sleep(20 * time.Millisecond)
	if r.calls != calls {
		t.Fatalf("expected no extra render for an already-cached page, calls went from %d to %d", calls, r.calls)
	}
}

func TestLeftHalfCropHasHalfWidth(t *testing.T) {
	r := newFakeRenderer()
	c := New(r, LeftHalf, 1.0)
	img, err := c.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 300 {
		t.Fatalf("expected a 300px-wide left half, got %d", img.Bounds().Dx())
	}
}

func TestDownscalePreservesAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 800))
	small := Downscale(img, 150)
	if small.Bounds().Dx() != 150 || small.Bounds().Dy() != 200 {
		t.Fatalf("expected 150x200, got %v", small.Bounds())
	}
}
