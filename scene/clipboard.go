package scene

import (
	"bytes"
	"encoding/binary"
	"image"
	"sort"

	"github.com/pkg/errors"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
)

// Renderer rasterizes a selection for the SVG/PNG/JPEG clipboard
// formats of §4.5; actual drawing is delegated to the external
// rendering collaborator (§1), so the scene only calls through this
// narrow interface.
type Renderer interface {
	RenderSVG(items []item.Item, bounds geom.Rectangle) []byte
	RenderRaster(items []item.Item, bounds geom.Rectangle, dpi float32) (png, jpeg []byte)
}

// Clipboard holds every MIME representation §4.5's Copy writes.
type Clipboard struct {
	Native []byte
	SVG    []byte
	PNG    []byte
	JPEG   []byte
}

// Copy serializes the current selection, sorted by z, into every
// clipboard representation §4.5 names. r may be nil, in which case
// only the native binary blob is produced.
func (s *SlideScene) Copy(r Renderer) (Clipboard, error) {
	items := s.selectedItemsByZ()
	if len(items) == 0 {
		return Clipboard{}, nil
	}
	native, err := encodeNative(items)
	if err != nil {
		return Clipboard{}, err
	}
	cb := Clipboard{Native: native}
	if r != nil {
		bounds := s.Overlay.Rect
		dpi := minf(4, 1600/maxf(bounds.Dx(), bounds.Dy()))
		cb.SVG = r.RenderSVG(items, bounds)
		cb.PNG, cb.JPEG = r.RenderRaster(items, bounds, dpi)
	}
	return cb, nil
}

func (s *SlideScene) selectedItemsByZ() []item.Item {
	items := make([]item.Item, 0, len(s.Overlay.Items))
	for _, id := range s.Overlay.Items {
		if it, ok := s.Container.Get(id); ok {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Z() < items[j].Z() })
	return items
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Paste decodes cb (preferring the native binary format, falling back
// to SVG then raster per §4.5's priority order) and adds the result
// as a new foreground selection, shifted into the slide rect if it
// would otherwise land outside, emitting one paths-added step.
func (s *SlideScene) Paste(cb Clipboard, slideRect geom.Rectangle, decodeRaster func([]byte) (image.Image, error)) error {
	var pasted []item.Item
	switch {
	case len(cb.Native) > 0:
		items, err := decodeNative(cb.Native, s.newItemID)
		if err != nil {
			return errors.Wrap(err, "scene: paste native clipboard")
		}
		pasted = items
	case len(cb.SVG) > 0:
		pasted = []item.Item{item.NewGraphicsPictureItem(s.newItemID(), nil, slideRect)}
	case len(cb.PNG) != 0 || len(cb.JPEG) != 0:
		raw := cb.PNG
		if len(raw) == 0 {
			raw = cb.JPEG
		}
		img, err := decodeRaster(raw)
		if err != nil {
			return errors.Wrap(err, "scene: paste raster clipboard")
		}
		bounds := geom.Rectangle{Max: geom.Pt(float32(img.Bounds().Dx()), float32(img.Bounds().Dy()))}
		pasted = []item.Item{item.NewGraphicsPictureItem(s.newItemID(), img, bounds)}
	default:
		return nil
	}
	if len(pasted) == 0 {
		return nil
	}
	shiftIntoRect(pasted, slideRect)
	if err := s.Container.AddPathsForeground(pasted); err != nil {
		return err
	}
	ids := make([]item.ID, len(pasted))
	for i, it := range pasted {
		ids[i] = it.ID()
	}
	s.Overlay.Items = ids
	s.Overlay.Rebuild(s.Container.Get)
	return nil
}

func shiftIntoRect(items []item.Item, slideRect geom.Rectangle) {
	if len(items) == 0 || slideRect.Empty() {
		return
	}
	union := item.SceneBoundingRect(items[0])
	for _, it := range items[1:] {
		union = union.Union(item.SceneBoundingRect(it))
	}
	var dx, dy float32
	if union.Min.X < slideRect.Min.X {
		dx = slideRect.Min.X - union.Min.X
	} else if union.Max.X > slideRect.Max.X {
		dx = slideRect.Max.X - union.Max.X
	}
	if union.Min.Y < slideRect.Min.Y {
		dy = slideRect.Min.Y - union.Min.Y
	} else if union.Max.Y > slideRect.Max.Y {
		dy = slideRect.Max.Y - union.Max.Y
	}
	if dx == 0 && dy == 0 {
		return
	}
	shift := geom.Offset(geom.Pt(dx, dy))
	for _, it := range items {
		it.SetTransform(it.Transform().Mul(shift))
	}
}

// Native blob layout, one record per item:
//
//	uint8  kind
//	uint64 z (bits of float64)
//	6x float32 transform elements (a b e c d f)
//	payload, kind-specific
const nativeMagic = "bpsel1\x00"

func encodeNative(items []item.Item) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(nativeMagic)
	binary.Write(&buf, binary.LittleEndian, uint32(len(items)))
	for _, it := range items {
		if err := encodeNativeItem(&buf, it); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeNativeItem(buf *bytes.Buffer, it item.Item) error {
	buf.WriteByte(byte(it.Kind()))
	binary.Write(buf, binary.LittleEndian, it.Z())
	a, b, e, c, d, f := it.Transform().Elems()
	for _, v := range [6]float32{a, b, e, c, d, f} {
		binary.Write(buf, binary.LittleEndian, v)
	}
	switch v := it.(type) {
	case *item.BasicGraphicsPath:
		writeStroke(buf, v.Tool())
		coords := v.Coordinates()
		binary.Write(buf, binary.LittleEndian, uint32(len(coords)))
		for _, p := range coords {
			binary.Write(buf, binary.LittleEndian, p.X)
			binary.Write(buf, binary.LittleEndian, p.Y)
		}
	default:
		return errors.Errorf("scene: clipboard encoding not supported for item kind %d", it.Kind())
	}
	return nil
}

func writeStroke(buf *bytes.Buffer, s style.Stroke) {
	binary.Write(buf, binary.LittleEndian, s.Color)
	binary.Write(buf, binary.LittleEndian, s.Width)
	buf.WriteByte(byte(s.Pattern))
	buf.WriteByte(byte(s.Cap))
	buf.WriteByte(byte(s.Join))
	buf.WriteByte(byte(s.Composition))
}

func readStroke(r *bytes.Reader) (style.Stroke, error) {
	var s style.Stroke
	if err := binary.Read(r, binary.LittleEndian, &s.Color); err != nil {
		return s, err
	}
	if err := binary.Read(r, binary.LittleEndian, &s.Width); err != nil {
		return s, err
	}
	var pattern, cap_, join, comp byte
	for _, p := range []*byte{&pattern, &cap_, &join, &comp} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return s, err
		}
	}
	s.Pattern, s.Cap, s.Join, s.Composition = style.Pattern(pattern), style.Cap(cap_), style.Join(join), style.Composition(comp)
	return s, nil
}

func decodeNative(data []byte, newID func() item.ID) ([]item.Item, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, len(nativeMagic))
	if _, err := r.Read(magic); err != nil || string(magic) != nativeMagic {
		return nil, errors.New("scene: not a native clipboard blob")
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	out := make([]item.Item, 0, n)
	for i := uint32(0); i < n; i++ {
		it, err := decodeNativeItem(r, newID)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func decodeNativeItem(r *bytes.Reader, newID func() item.ID) (item.Item, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var z float64
	if err := binary.Read(r, binary.LittleEndian, &z); err != nil {
		return nil, err
	}
	var elems [6]float32
	for i := range elems {
		if err := binary.Read(r, binary.LittleEndian, &elems[i]); err != nil {
			return nil, err
		}
	}
	transform := geom.NewAffine2D(elems[0], elems[1], elems[3], elems[4], elems[2], elems[5])

	switch item.Kind(kindByte) {
	case item.KindBasicPath:
		stroke, err := readStroke(r)
		if err != nil {
			return nil, err
		}
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, err
		}
		p := item.NewBasicGraphicsPath(newID(), stroke)
		for i := uint32(0); i < count; i++ {
			var x, y float32
			if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
				return nil, err
			}
			p.AddPoint(geom.Pt(x, y))
		}
		p.Finalize()
		p.SetTransform(transform)
		p.SetZ(z)
		return p, nil
	default:
		return nil, errors.Errorf("scene: clipboard decoding not supported for item kind %d", kindByte)
	}
}
