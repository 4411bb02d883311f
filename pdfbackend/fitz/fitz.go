// Package fitz implements pdfbackend.Backend on top of
// github.com/gen2brain/go-fitz (MuPDF bindings): the renderer of record
// for pixmaps, per SPEC_FULL.md §B. Label/transition/link metadata that
// MuPDF's wrapper doesn't expose fall back to sane defaults; compose
// pdfbackend/pdfcpu in front of LinkAt/PageLabel/Transition for decks
// that need the richer object-graph reads.
package fitz

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	gofitz "github.com/gen2brain/go-fitz"
	"github.com/pkg/errors"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/media"
	"github.com/slidepresenter/engine/pdfbackend"
	"github.com/slidepresenter/engine/scene"
	"github.com/slidepresenter/engine/transition"
)

// pointsPerInch is used to convert a Render resolution (pixels per
// point) into the DPI go-fitz's ImageDPI expects.
const pointsPerInch = 72

// Backend wraps a *gofitz.Document, exposing it through
// pdfbackend.Backend's full operation surface.
type Backend struct {
	doc       *gofitz.Document
	navigator pdfbackend.Navigator
}

// Open loads path through MuPDF. nav receives followed links; it may
// be nil for a Backend used only for rendering.
func Open(path string, nav pdfbackend.Navigator) (*Backend, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fitz: opening %s", path)
	}
	return &Backend{doc: doc, navigator: nav}, nil
}

// Close releases the underlying MuPDF document.
func (b *Backend) Close() error { return b.doc.Close() }

// PageCount implements pdfbackend.Backend.
func (b *Backend) PageCount() int { return b.doc.NumPage() }

// PageSize implements pdfbackend.Backend (and, structurally,
// cache.Renderer): go-fitz's Bound reports the page's MediaBox in
// points at 1:1 scale, matching the point-space this engine works in.
func (b *Backend) PageSize(page int) (width, height float32) {
	r, err := b.doc.Bound(page)
	if err != nil {
		return 0, 0
	}
	return float32(r.Dx()), float32(r.Dy())
}

// PageLabel implements pdfbackend.Backend. go-fitz's Document exposes
// no /PageLabels lookup, so this backend always returns the 1-based
// page number; a caller wanting custom labels composes
// pdfbackend/pdfcpu.PageLabel instead.
func (b *Backend) PageLabel(page int) string { return strconv.Itoa(page + 1) }

// OverlaysShifted implements pdfbackend.Backend as a plain shift by
// raw page index, clamped to the document, since go-fitz exposes no
// overlay/label grouping;
// compose pdfbackend/pdfcpu.OverlaysShifted for label-aware shifting.
func (b *Backend) OverlaysShifted(page, shift int) int {
	next := page + shift
	if next < 0 {
		return 0
	}
	if n := b.PageCount(); next >= n {
		return n - 1
	}
	return next
}

// Transition implements pdfbackend.Backend. go-fitz's wrapper exposes
// no /Trans dictionary access (that needs raw MuPDF page object
// traversal beyond what the Go bindings surface), so this backend
// always reports transition.None; compose pdfbackend/pdfcpu.Transition
// for decks that set page transitions.
func (b *Backend) Transition(page int) transition.Record { return transition.Record{} }

// Annotations implements pdfbackend.Backend. go-fitz exposes no
// annotation-dictionary access beyond link URIs, so media annotations
// are not discoverable through this backend; compose
// pdfbackend/pdfcpu.Annotations instead.
func (b *Backend) Annotations(page int) []media.Annotation { return nil }

// LinkAt implements pdfbackend.Backend (and, structurally,
// scene.Backend). go-fitz's Links reports only a URI per link with no
// rect, so a precise point hit-test isn't possible through this
// wrapper; this backend returns the page's first link, if any, as a
// best-effort fallback. Compose pdfbackend/pdfcpu.LinkAt for rect-aware
// hit-testing.
func (b *Backend) LinkAt(page int, pos geom.Point) (scene.LinkTarget, bool) {
	links, err := b.doc.Links(page)
	if err != nil || len(links) == 0 {
		return nil, false
	}
	return externalLink{uri: links[0].URI, navigator: b.navigator}, true
}

// externalLink implements scene.LinkTarget for a bare URI, classifying
// it by MuPDF's own convention: internal page jumps are encoded as
// "#<page>", everything else is treated as an external URL.
type externalLink struct {
	uri       string
	navigator pdfbackend.Navigator
}

func (l externalLink) Follow() {
	if l.navigator == nil {
		return
	}
	if strings.HasPrefix(l.uri, "#") {
		if n, err := strconv.Atoi(strings.TrimPrefix(l.uri, "#")); err == nil {
			l.navigator.NavigateToPage(n)
			return
		}
	}
	l.navigator.OpenURL(l.uri)
}

// Render implements pdfbackend.Backend (and, structurally,
// cache.Renderer): resolution is pixels per point, matching §4.8's
// `r · page_size` cache-validity rule.
func (b *Backend) Render(page int, resolution float32) (image.Image, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("fitz: non-positive resolution %v", resolution)
	}
	img, err := b.doc.ImageDPI(page, float64(resolution)*pointsPerInch)
	if err != nil {
		return nil, errors.Wrapf(err, "fitz: rendering page %d", page)
	}
	return img, nil
}

// Search implements pdfbackend.Backend using go-fitz's per-page plain
// text extraction as a linear scan; it reports the matching page but no
// highlight rects, since go-fitz's Text doesn't return glyph
// positions.
func (b *Backend) Search(query string) []pdfbackend.SearchResult {
	if query == "" {
		return nil
	}
	var out []pdfbackend.SearchResult
	lower := strings.ToLower(query)
	for i := 0; i < b.PageCount(); i++ {
		text, err := b.doc.Text(i)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(text), lower) {
			out = append(out, pdfbackend.SearchResult{Page: i})
		}
	}
	return out
}
