// Package pdfcpu implements pdfbackend.Backend on top of
// github.com/pdfcpu/pdfcpu: page count/size/label and link extraction
// by walking the raw page dictionary, since pdfcpu is a structural PDF
// editor rather than a renderer. It is the "page metadata/link fallback
// backend" of SPEC_FULL.md §B; pdfbackend/fitz remains the renderer of
// record for pixmaps.
package pdfcpu

import (
	"fmt"
	"image"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"

	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/media"
	"github.com/slidepresenter/engine/pdfbackend"
	"github.com/slidepresenter/engine/scene"
	"github.com/slidepresenter/engine/transition"
)

// Backend reads page geometry, labels, link annotations, and /Trans
// transition dictionaries straight out of the PDF's object graph. Its
// Render always fails: pdfcpu has no rasterizer, so a SlideView backed
// only by this package would need a renderer composed in front of it
// (see pdfbackend/fitz for that role).
type Backend struct {
	path      string
	ctx       *model.Context
	pageCount int
	navigator pdfbackend.Navigator
}

// Open reads path's cross-reference table and page tree once; the
// returned Backend keeps no file handle open afterward.
func Open(path string, nav pdfbackend.Navigator) (*Backend, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pdfcpu: reading %s", path)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pdfcpu: counting pages in %s", path)
	}
	return &Backend{path: path, ctx: ctx, pageCount: n, navigator: nav}, nil
}

// PageCount implements pdfbackend.Backend.
func (b *Backend) PageCount() int { return b.pageCount }

// PageSize implements pdfbackend.Backend (and, structurally,
// cache.Renderer), reading the page's MediaBox in points.
func (b *Backend) PageSize(page int) (width, height float32) {
	dims, err := api.PageDimsFile(b.path)
	if err != nil || page < 0 || page >= len(dims) {
		return 0, 0
	}
	d := dims[page]
	return float32(d.Width), float32(d.Height)
}

// PageLabel implements pdfbackend.Backend, reading a "PZ-Label" string
// entry of the page dictionary or falling back to a 1-based page number
// when no such entry exists.
func (b *Backend) PageLabel(page int) string {
	dict, err := b.pageDict(page)
	if err != nil {
		return strconv.Itoa(page + 1)
	}
	if lbl, found := dict.Find("PZ-Label"); found {
		if s, ok := lbl.(types.StringLiteral); ok {
			return s.String()
		}
	}
	return strconv.Itoa(page + 1)
}

// OverlaysShifted implements pdfbackend.Backend: pages sharing the same
// label are treated as overlays of one slide, per GLOSSARY's "Overlay"
// entry; shifting moves by whole labeled groups, not by raw page index.
func (b *Backend) OverlaysShifted(page, shift int) int {
	if shift == 0 || b.pageCount == 0 {
		return page
	}
	label := b.PageLabel(page)
	step := 1
	if shift < 0 {
		step = -1
	}
	remaining := shift
	if remaining < 0 {
		remaining = -remaining
	}
	cur := page
	for remaining > 0 {
		next := cur + step
		if next < 0 || next >= b.pageCount {
			break
		}
		if b.PageLabel(next) != label {
			label = b.PageLabel(next)
			remaining--
		}
		cur = next
	}
	return cur
}

// Transition implements pdfbackend.Backend by reading the page's /Trans
// dictionary (PDF 1.5 §12.4.4). Unrecognized or absent /Trans entries
// produce a zero Record (transition.None), matching §7's "total on
// valid inputs, no-op on invalid ones" policy.
func (b *Backend) Transition(page int) transition.Record {
	dict, err := b.pageDict(page)
	if err != nil {
		return transition.Record{}
	}
	obj, found := dict.Find("Trans")
	if !found {
		return transition.Record{}
	}
	trans, ok := b.dereferenceDict(obj)
	if !ok {
		return transition.Record{}
	}
	rec := transition.Record{Duration: time.Second}
	if d, found := trans.Find("D"); found {
		if n, ok := numberValue(d); ok {
			rec.Duration = time.Duration(n * float64(time.Second))
		}
	}
	if a, found := trans.Find("Di"); found {
		if n, ok := numberValue(a); ok {
			rec.Angle = float32(n)
		}
	}
	if s, found := trans.Find("SS"); found {
		if n, ok := numberValue(s); ok {
			rec.Scale = float32(n)
		}
	}
	if name, found := trans.Find("S"); found {
		if n, ok := name.(types.Name); ok {
			rec.Type, rec.Inward = transitionType(n.String(), trans)
		}
	}
	return rec
}

func transitionType(s string, trans types.Dict) (transition.Type, bool) {
	inward := true
	if m, found := trans.Find("M"); found {
		if n, ok := m.(types.Name); ok && n.String() == "O" {
			inward = false
		}
	}
	switch s {
	case "Split":
		return transition.Split, inward
	case "Blinds":
		return transition.Blinds, inward
	case "Box":
		return transition.Box, inward
	case "Wipe":
		return transition.Wipe, inward
	case "Dissolve":
		return transition.Dissolve, inward
	case "Glitter":
		return transition.Glitter, inward
	case "Fly":
		return transition.Fly, inward
	case "Push":
		return transition.Push, inward
	case "Cover":
		return transition.Cover, inward
	case "Uncover":
		return transition.Uncover, inward
	case "Fade":
		return transition.Fade, inward
	default:
		return transition.None, inward
	}
}

// Annotations implements pdfbackend.Backend. pdfcpu's object model has
// no notion of embedded media streams beyond raw annotation
// dictionaries, so only ExternalURL media (Link annotations whose
// action is a URI referencing an audio/video resource) is surfaced
// here; embedded-file/audio-stream annotations need stream decoding
// this package does not perform, and the fitz backend reports no
// annotations at all, so neither backend surfaces them.
func (b *Backend) Annotations(page int) []media.Annotation {
	dict, err := b.pageDict(page)
	if err != nil {
		return nil
	}
	annots, ok := b.annotDicts(dict)
	if !ok {
		return nil
	}
	var out []media.Annotation
	for _, a := range annots {
		subtype, _ := a.Find("Subtype")
		name, ok := subtype.(types.Name)
		if !ok || name.String() != "Link" {
			continue
		}
		actionObj, found := a.Find("A")
		if !found {
			continue
		}
		action, ok := b.dereferenceDict(actionObj)
		if !ok {
			continue
		}
		url, isMedia := mediaURL(action)
		if !isMedia {
			continue
		}
		out = append(out, media.Annotation{
			Type: media.ExternalURL,
			URL:  url,
			Rect: rectValue(a),
			Mode: media.ModeOnce,
		})
	}
	return out
}

// LinkAt implements pdfbackend.Backend (and, structurally,
// scene.Backend), returning the first Link annotation whose Rect
// contains pos.
func (b *Backend) LinkAt(page int, pos geom.Point) (scene.LinkTarget, bool) {
	dict, err := b.pageDict(page)
	if err != nil {
		return nil, false
	}
	annots, ok := b.annotDicts(dict)
	if !ok {
		return nil, false
	}
	for _, a := range annots {
		subtype, _ := a.Find("Subtype")
		name, ok := subtype.(types.Name)
		if !ok || name.String() != "Link" {
			continue
		}
		r := rectValue(a)
		if !r.ContainsPoint(pos) {
			continue
		}
		if link, ok := b.resolveLink(a); ok {
			return link, true
		}
	}
	return nil, false
}

func (b *Backend) resolveLink(a types.Dict) (pdfbackend.Link, bool) {
	if dest, found := a.Find("Dest"); found {
		if p, ok := b.destPage(dest); ok {
			return pdfbackend.Link{Kind: pdfbackend.KindNavigation, TargetPage: p, Navigator: b.navigator}, true
		}
	}
	actionObj, found := a.Find("A")
	if !found {
		return pdfbackend.Link{}, false
	}
	action, ok := b.dereferenceDict(actionObj)
	if !ok {
		return pdfbackend.Link{}, false
	}
	actionType, _ := action.Find("S")
	switch name, _ := actionType.(types.Name); name.String() {
	case "URI":
		if uri, found := action.Find("URI"); found {
			if s, ok := uri.(types.StringLiteral); ok {
				if url, isMedia := mediaURL(action); isMedia {
					return pdfbackend.Link{Kind: pdfbackend.KindMedia, Media: media.Annotation{Type: media.ExternalURL, URL: url}, Navigator: b.navigator}, true
				}
				return pdfbackend.Link{Kind: pdfbackend.KindExternalURL, URL: s.String(), Navigator: b.navigator}, true
			}
		}
	case "GoTo":
		if dest, found := action.Find("D"); found {
			if p, ok := b.destPage(dest); ok {
				return pdfbackend.Link{Kind: pdfbackend.KindNavigation, TargetPage: p, Navigator: b.navigator}, true
			}
		}
	case "Named":
		if n, found := action.Find("N"); found {
			if name, ok := n.(types.Name); ok {
				return pdfbackend.Link{Kind: pdfbackend.KindAction, Action: name.String(), Navigator: b.navigator}, true
			}
		}
	}
	return pdfbackend.Link{}, false
}

func mediaURL(action types.Dict) (string, bool) {
	uri, found := action.Find("URI")
	if !found {
		return "", false
	}
	s, ok := uri.(types.StringLiteral)
	if !ok {
		return "", false
	}
	u := s.String()
	for _, ext := range []string{".mp4", ".webm", ".ogg", ".mp3", ".wav", ".m4a"} {
		if strings.HasSuffix(strings.ToLower(u), ext) {
			return u, true
		}
	}
	return u, false
}

// destPage resolves a /Dest entry (an indirect page reference, or an
// array whose first element is) to a 0-based page index. It dereferences
// the target and matches it by structural equality against each page's
// own dictionary rather than any internal object-number field, since
// pdfcpu's types.Dict exposes no public identity accessor beyond its
// contents.
func (b *Backend) destPage(dest types.Object) (int, bool) {
	arr, ok := dest.(types.Array)
	if !ok || len(arr) == 0 {
		return 0, false
	}
	target, ok := b.dereferenceDict(arr[0])
	if !ok {
		return 0, false
	}
	for i := 0; i < b.pageCount; i++ {
		pd, err := b.pageDict(i)
		if err != nil {
			continue
		}
		if reflect.DeepEqual(pd, target) {
			return i, true
		}
	}
	return 0, false
}

func (b *Backend) pageDict(page int) (types.Dict, error) {
	dict, _, _, err := b.ctx.PageDict(page+1, false)
	if err != nil {
		return nil, errors.Wrapf(err, "pdfcpu: page dict for page %d", page)
	}
	return dict, nil
}

func (b *Backend) annotDicts(page types.Dict) ([]types.Dict, bool) {
	annotsObj, found := page.Find("Annots")
	if !found {
		return nil, false
	}
	annotsObj = b.deref(annotsObj)
	arr, ok := annotsObj.(types.Array)
	if !ok {
		return nil, false
	}
	out := make([]types.Dict, 0, len(arr))
	for _, o := range arr {
		if d, ok := b.dereferenceDict(o); ok {
			out = append(out, d)
		}
	}
	return out, true
}

func (b *Backend) deref(o types.Object) types.Object {
	if ref, ok := o.(types.IndirectRef); ok {
		if d, err := b.ctx.Dereference(ref); err == nil {
			return d
		}
	}
	return o
}

func (b *Backend) dereferenceDict(o types.Object) (types.Dict, bool) {
	d, ok := b.deref(o).(types.Dict)
	return d, ok
}

func rectValue(a types.Dict) geom.Rectangle {
	obj, found := a.Find("Rect")
	if !found {
		return geom.Rectangle{}
	}
	arr, ok := obj.(types.Array)
	if !ok || len(arr) < 4 {
		return geom.Rectangle{}
	}
	v := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v[i], _ = numberValue(arr[i])
	}
	return geom.Rectangle{Min: geom.Pt(float32(v[0]), float32(v[1])), Max: geom.Pt(float32(v[2]), float32(v[3]))}
}

func numberValue(o types.Object) (float64, bool) {
	switch n := o.(type) {
	case types.Float:
		return float64(n), true
	case types.Integer:
		return float64(n), true
	default:
		return 0, false
	}
}

// Render implements pdfbackend.Backend's signature but always fails:
// pdfcpu has no rasterizer, so this backend is metadata/link-only. A
// caller wiring the full engine composes pdfbackend/fitz as the
// renderer and this package only for metadata.
func (b *Backend) Render(page int, resolution float32) (image.Image, error) {
	return nil, fmt.Errorf("pdfcpu: rendering not supported, use pdfbackend/fitz")
}

// Search implements pdfbackend.Backend. pdfcpu has no text-extraction
// search index built in; a full implementation would need a separate
// text-layer index, out of scope for the metadata/link-fallback role
// this backend plays (see SPEC_FULL.md §B).
func (b *Backend) Search(query string) []pdfbackend.SearchResult { return nil }
