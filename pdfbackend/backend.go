// Package pdfbackend defines the thin interface §6 requires from the
// PDF parsing backend (an out-of-scope external collaborator per §1)
// and the Link/SearchResult shapes it hands back. Concrete backends
// live in the fitz and pdfcpu subpackages.
package pdfbackend

import (
	"image"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/media"
	"github.com/slidepresenter/engine/scene"
	"github.com/slidepresenter/engine/transition"
)

// Backend is §6's full consumed-operations surface. Any implementation
// also satisfies cache.Renderer (PageSize/Render) and scene.Backend
// (LinkAt) structurally, without this package importing either.
type Backend interface {
	PageCount() int
	PageSize(page int) (width, height float32)
	PageLabel(page int) string
	OverlaysShifted(page, shift int) int
	Transition(page int) transition.Record
	Annotations(page int) []media.Annotation
	LinkAt(page int, pos geom.Point) (scene.LinkTarget, bool)
	Render(page int, resolution float32) (image.Image, error)
	Search(query string) []SearchResult
}

// SearchResult is one match of `search(query) → (page, rects)`.
type SearchResult struct {
	Page  int
	Rects []geom.Rectangle
}
