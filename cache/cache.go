// Package cache implements §4.8's per-(PDF handle, page-part) pixmap
// cache: a background render worker, PNG-compressed storage keyed by
// page index, and resolution-aware invalidation.
package cache

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// PagePart selects whether a render covers the whole page or one
// half, per the GLOSSARY's page-part concept.
type PagePart uint8

const (
	Full PagePart = iota
	LeftHalf
	RightHalf
)

// Renderer is the narrow surface of §6's PDF backend the cache needs;
// injected so this package never imports pdfbackend and stays usable
// against a fake in tests.
type Renderer interface {
	PageSize(page int) (width, height float32)
	Render(page int, resolution float32) (image.Image, error)
}

// Cache holds one render worker and one PNG-compressed page store for
// a single (backend, page-part) pair.
type Cache struct {
	mu         sync.Mutex
	renderer   Renderer
	part       PagePart
	resolution float32
	data       map[int][]byte
	dims       map[int]image.Point
	totalBytes int64

	// OnSizeChanged mirrors §4.8's external cache_size_changed(delta)
	// signal; nil is a valid no-op subscriber.
	OnSizeChanged func(delta int64)

	workCh chan int
	quit   chan struct{}
	wg     sync.WaitGroup
}

// New creates a cache at the given initial resolution. Start must be
// called before UpdateCache has any effect.
func New(r Renderer, part PagePart, resolution float32) *Cache {
	return &Cache{
		renderer:   r,
		part:       part,
		resolution: resolution,
		data:       make(map[int][]byte),
		dims:       make(map[int]image.Point),
	}
}

// Start launches the background render worker described in §5: a
// one-deep coalesced request queue consumed until Stop is called.
func (c *Cache) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workCh != nil {
		return
	}
	c.workCh = make(chan int, 1)
	c.quit = make(chan struct{})
	c.wg.Add(1)
	go c.worker()
}

// Stop requests the worker to finish, waiting up to 10 seconds before
// abandoning it, per §5's cancellation rule.
func (c *Cache) Stop() {
	c.mu.Lock()
	quit := c.quit
	c.mu.Unlock()
	if quit == nil {
		return
	}
	close(quit)
	done := make(chan struct{})
	go func() { c.wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
	}
}

func (c *Cache) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.quit:
			return
		case page := <-c.workCh:
			c.renderAndStore(page)
		}
	}
}

// UpdateCache enqueues a background render of page, coalescing with
// any request already pending; a no-op if page is already cached at
// the current resolution.
func (c *Cache) UpdateCache(page int) {
	c.mu.Lock()
	_, cached := c.validLocked(page)
	ch := c.workCh
	c.mu.Unlock()
	if cached || ch == nil {
		return
	}
	select {
	case ch <- page:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- page:
		default:
		}
	}
}

// GetCached decodes and returns the cached pixmap for page if present
// and valid at the current resolution, or (nil, false) otherwise. It
// never renders.
func (c *Cache) GetCached(page int) (image.Image, bool) {
	c.mu.Lock()
	raw, ok := c.validLocked(page)
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, false
	}
	return img, true
}

// Get returns the cached pixmap for page, rendering synchronously if
// absent or stale.
func (c *Cache) Get(page int) (image.Image, error) {
	if img, ok := c.GetCached(page); ok {
		return img, nil
	}
	return c.renderAndStore(page)
}

// ClearPage discards page's cached entry, if any.
func (c *Cache) ClearPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(page)
}

// ClearAll discards every cached entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for page := range c.data {
		c.dropLocked(page)
	}
}

// ChangeResolution switches the target resolution, clearing every
// entry if it actually differs from the one already in effect.
func (c *Cache) ChangeResolution(r float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == c.resolution {
		return
	}
	c.resolution = r
	for page := range c.data {
		c.dropLocked(page)
	}
}

// TotalBytes reports the cache's current footprint, for config's
// max_memory accounting.
func (c *Cache) TotalBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

func (c *Cache) dropLocked(page int) {
	raw, ok := c.data[page]
	if !ok {
		return
	}
	delete(c.data, page)
	delete(c.dims, page)
	c.totalBytes -= int64(len(raw))
	if c.OnSizeChanged != nil {
		c.OnSizeChanged(-int64(len(raw)))
	}
}

// validLocked returns the raw PNG bytes for page iff they're present
// and their stored pixel size still matches resolution*page_size
// within 2px, per §4.8/Design Notes' async-invalidation rule.
func (c *Cache) validLocked(page int) ([]byte, bool) {
	raw, ok := c.data[page]
	if !ok {
		return nil, false
	}
	dim, ok := c.dims[page]
	if !ok {
		c.dropLocked(page)
		return nil, false
	}
	want := c.wantSizeLocked(page)
	if absInt(dim.X-want.X) > 2 || absInt(dim.Y-want.Y) > 2 {
		c.dropLocked(page)
		return nil, false
	}
	return raw, true
}

func (c *Cache) wantSizeLocked(page int) image.Point {
	w, h := c.renderer.PageSize(page)
	if c.part != Full {
		w /= 2
	}
	return image.Point{X: int(c.resolution*w + 0.5), Y: int(c.resolution*h + 0.5)}
}

func (c *Cache) renderAndStore(page int) (image.Image, error) {
	c.mu.Lock()
	resolution := c.resolution
	part := c.part
	c.mu.Unlock()

	full, err := c.renderer.Render(page, resolution)
	if err != nil {
		return nil, errors.Wrapf(err, "cache: render page %d", page)
	}
	img := full
	if part != Full {
		img = cropHalf(full, part)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrapf(err, "cache: encode page %d", page)
	}

	c.mu.Lock()
	c.dropLocked(page)
	raw := buf.Bytes()
	c.data[page] = raw
	c.dims[page] = img.Bounds().Size()
	c.totalBytes += int64(len(raw))
	cb := c.OnSizeChanged
	c.mu.Unlock()
	if cb != nil {
		cb(int64(len(raw)))
	}
	return img, nil
}

func cropHalf(full image.Image, part PagePart) *image.RGBA {
	b := full.Bounds()
	halfW := b.Dx() / 2
	src := image.Rect(b.Min.X, b.Min.Y, b.Min.X+halfW, b.Max.Y)
	if part == RightHalf {
		src = image.Rect(b.Min.X+halfW, b.Min.Y, b.Max.X, b.Max.Y)
	}
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), full, src.Min, draw.Src)
	return out
}

// Downscale produces a bilinear-filtered copy of img at the given
// pixel width, preserving aspect ratio, for lower-resolution
// PixmapGraphicsItem variants (§4.7's magnifier fallback ladder).
func Downscale(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == 0 || width <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	height := b.Dy() * width / b.Dx()
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(out, out.Bounds(), img, b, draw.Over, nil)
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
