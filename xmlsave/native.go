// Package xmlsave implements §6's "Persisted annotation state (XML)"
// format: an ordered, per-page list of stroke and text elements
// written and read in z-order, plus a reader for uncompressed
// Xournal/Xournal++ files (§C.1). Encoding is done by hand with
// encoding/xml's token-level Encoder/Decoder rather than its
// struct-tag marshaling, since struct tags cannot express "stroke and
// text children interleaved in one ordered list" — the exact property
// Testable Properties §8 item 6 checks.
package xmlsave

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

var toolNames = map[tool.Kind]string{
	tool.KindPen:           "pen",
	tool.KindFixedWidthPen: "fixedwidthpen",
	tool.KindHighlighter:   "highlighter",
}

func toolName(k tool.Kind) string {
	if n, ok := toolNames[k]; ok {
		return n
	}
	return "pen"
}

func parseToolName(s string) (tool.Kind, bool) {
	for k, n := range toolNames {
		if n == s {
			return k, true
		}
	}
	return tool.KindPen, false
}

func patternName(p style.Pattern) string {
	switch p {
	case style.DashLine:
		return "dash"
	case style.DotLine:
		return "dot"
	case style.DashDotLine:
		return "dashdot"
	default:
		return "solid"
	}
}

func parsePatternName(s string) style.Pattern {
	switch s {
	case "dash":
		return style.DashLine
	case "dot":
		return style.DotLine
	case "dashdot":
		return style.DashDotLine
	default:
		return style.SolidLine
	}
}

// WriteRegistry serializes every container currently held by reg, one
// <page> element per (page, page-part) key, sorted by page number then
// part, each page's stroke/text children written in z-order.
func WriteRegistry(w io.Writer, reg *container.Registry) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	root := xml.StartElement{Name: xml.Name{Local: "annotations"}}
	if err := enc.EncodeToken(root); err != nil {
		return errors.Wrap(err, "xmlsave: writing root element")
	}
	keys := reg.Keys()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Page != keys[j].Page {
			return keys[i].Page < keys[j].Page
		}
		return keys[i].Part < keys[j].Part
	})
	for _, k := range keys {
		c, _ := reg.Get(k.Page, k.Part)
		if err := writePage(enc, k, c); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return errors.Wrap(err, "xmlsave: closing root element")
	}
	return enc.Flush()
}

func writePage(enc *xml.Encoder, k container.Key, c *container.PathContainer) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "page"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "number"}, Value: strconv.Itoa(k.Page)},
			{Name: xml.Name{Local: "part"}, Value: partName(k.Part)},
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, it := range c.VisibleItems() {
		if err := writeItem(enc, it); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func partName(p container.PagePart) string {
	switch p {
	case container.PartLeft:
		return "left"
	case container.PartRight:
		return "right"
	default:
		return "full"
	}
}

func parsePartName(s string) container.PagePart {
	switch s {
	case "left":
		return container.PartLeft
	case "right":
		return container.PartRight
	default:
		return container.PartFull
	}
}

func writeItem(enc *xml.Encoder, it item.Item) error {
	switch p := it.(type) {
	case *item.FullGraphicsPath:
		return writeStroke(enc, p.Kind(), p.Tool(), item.StringCoordinates(p, p.Coordinates()), p.Widths())
	case *item.BasicGraphicsPath:
		return writeStroke(enc, p.Kind(), p.Tool(), item.StringCoordinates(p, p.Coordinates()), nil)
	case *item.TextGraphicsItem:
		return writeText(enc, p)
	default:
		// Picture/Pixmap/Group items are not part of §6's persisted
		// annotation format; only stroke and text children are defined.
		return nil
	}
}

func writeStroke(enc *xml.Encoder, kind item.Kind, s style.Stroke, coords []geom.Point, widths []float32) error {
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "tool"}, Value: toolName(strokeKindToToolKind(kind, s))},
		{Name: xml.Name{Local: "color"}, Value: formatRRGGBBAA(s.Color)},
		{Name: xml.Name{Local: "width"}, Value: widthAttr(s.Width, widths)},
		{Name: xml.Name{Local: "style"}, Value: patternName(s.Pattern)},
	}
	if s.Fill.Valid {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "brushcolor"}, Value: formatRRGGBBAA(s.Fill.Color)})
	}
	start := xml.StartElement{Name: xml.Name{Local: "stroke"}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(coordinateText(coords))); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// strokeKindToToolKind recovers the saved tool kind from the item's
// own Kind plus its composition mode: a highlighter path is the only
// one painted with style.Darken compositing, per tool.DrawTool's
// highlighter construction.
func strokeKindToToolKind(kind item.Kind, s style.Stroke) tool.Kind {
	if s.Composition == style.Darken {
		return tool.KindHighlighter
	}
	if kind == item.KindFullPath {
		return tool.KindPen
	}
	return tool.KindFixedWidthPen
}

func widthAttr(base float32, widths []float32) string {
	if len(widths) == 0 {
		return formatFloat(base)
	}
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = formatFloat(w)
	}
	return strings.Join(parts, " ")
}

func coordinateText(coords []geom.Point) string {
	parts := make([]string, 0, len(coords)*2)
	for _, c := range coords {
		parts = append(parts, formatFloat(c.X), formatFloat(c.Y))
	}
	return strings.Join(parts, " ")
}

func formatFloat(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func writeText(enc *xml.Encoder, t *item.TextGraphicsItem) error {
	pos := t.Transform().Transform(geom.Point{})
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "font"}, Value: t.Font().Family},
		{Name: xml.Name{Local: "size"}, Value: formatFloat(t.Font().PointSize)},
		{Name: xml.Name{Local: "color"}, Value: formatRRGGBBAA(t.Color())},
		{Name: xml.Name{Local: "x"}, Value: formatFloat(pos.X)},
		{Name: xml.Name{Local: "y"}, Value: formatFloat(pos.Y)},
	}
	start := xml.StartElement{Name: xml.Name{Local: "text"}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(t.Text())); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// ReadRegistry parses a native save file previously written by
// WriteRegistry, inserting each page's items into reg via
// AddPathsForeground so they land on the container's z-order in the
// order they were read, matching the round-trip property.
func ReadRegistry(r io.Reader, reg *container.Registry, newID func() item.ID) error {
	dec := xml.NewDecoder(r)
	var curPage int
	var curPart container.PagePart
	var curItems []item.Item
	flush := func() error {
		if len(curItems) == 0 {
			return nil
		}
		c, _ := reg.Get(curPage, curPart)
		err := c.AddPathsForeground(curItems)
		curItems = nil
		return err
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "xmlsave: decoding")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "page":
				if err := flush(); err != nil {
					return err
				}
				curPage, curPart = parsePageAttrs(t.Attr)
			case "stroke":
				it, err := readStroke(dec, t, newID)
				if err != nil {
					return err
				}
				if it != nil {
					curItems = append(curItems, it)
				}
			case "text":
				it, err := readText(dec, t, newID)
				if err != nil {
					return err
				}
				if it != nil {
					curItems = append(curItems, it)
				}
			}
		}
	}
	return flush()
}

func parsePageAttrs(attrs []xml.Attr) (page int, part container.PagePart) {
	for _, a := range attrs {
		switch a.Name.Local {
		case "number":
			page, _ = strconv.Atoi(a.Value)
		case "part":
			part = parsePartName(a.Value)
		}
	}
	return
}

func attrValue(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func readCharData(dec *xml.Decoder, end string) (string, error) {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == end {
				return b.String(), nil
			}
		}
	}
}

func readStroke(dec *xml.Decoder, start xml.StartElement, newID func() item.ID) (item.Item, error) {
	text, err := readCharData(dec, "stroke")
	if err != nil {
		return nil, errors.Wrap(err, "xmlsave: reading stroke body")
	}
	coords, err := parseCoordinates(text)
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, nil
	}
	s, widths, err := parseStrokeAttrs(start.Attr)
	if err != nil {
		return nil, err
	}
	if len(widths) > 1 {
		p := item.NewFullGraphicsPath(newID(), s)
		p.AppendWithWidth(coords[0], 0)
		for i := 1; i < len(coords); i++ {
			w := s.Width
			if i-1 < len(widths) {
				w = widths[i-1]
			}
			p.AppendWithWidth(coords[i], w)
		}
		p.Finalize()
		return p, nil
	}
	p := item.NewBasicGraphicsPath(newID(), s)
	for _, c := range coords {
		p.AddPoint(c)
	}
	p.Finalize()
	return p, nil
}

func parseStrokeAttrs(attrs []xml.Attr) (style.Stroke, []float32, error) {
	var s style.Stroke
	if v, ok := attrValue(attrs, "tool"); ok {
		if k, found := parseToolName(v); found && k == tool.KindHighlighter {
			s.Composition = style.Darken
		}
	}
	if v, ok := attrValue(attrs, "color"); ok {
		c, err := parseRRGGBBAA(v)
		if err != nil {
			return s, nil, err
		}
		s.Color = c
	}
	if v, ok := attrValue(attrs, "style"); ok {
		s.Pattern = parsePatternName(v)
	}
	if v, ok := attrValue(attrs, "brushcolor"); ok {
		c, err := parseRRGGBBAA(v)
		if err != nil {
			return s, nil, err
		}
		s.Fill = style.Brush{Color: c, Valid: true}
	}
	var widths []float32
	if v, ok := attrValue(attrs, "width"); ok {
		fields := strings.Fields(v)
		for _, f := range fields {
			n, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return s, nil, errors.Wrapf(err, "xmlsave: parsing width %q", v)
			}
			widths = append(widths, float32(n))
		}
		if len(widths) == 1 {
			s.Width = widths[0]
			widths = nil
		}
	}
	return s, widths, nil
}

func parseCoordinates(text string) ([]geom.Point, error) {
	fields := strings.Fields(text)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("xmlsave: odd number of coordinate values")
	}
	out := make([]geom.Point, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, errors.Wrap(err, "xmlsave: parsing x coordinate")
		}
		y, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return nil, errors.Wrap(err, "xmlsave: parsing y coordinate")
		}
		out = append(out, geom.Pt(float32(x), float32(y)))
	}
	return out, nil
}

func readText(dec *xml.Decoder, start xml.StartElement, newID func() item.ID) (item.Item, error) {
	text, err := readCharData(dec, "text")
	if err != nil {
		return nil, errors.Wrap(err, "xmlsave: reading text body")
	}
	var font item.Font
	var c color.RGBA
	var x, y float64
	if v, ok := attrValue(start.Attr, "font"); ok {
		font.Family = v
	}
	if v, ok := attrValue(start.Attr, "size"); ok {
		n, _ := strconv.ParseFloat(v, 32)
		font.PointSize = float32(n)
	}
	if v, ok := attrValue(start.Attr, "color"); ok {
		c, err = parseRRGGBBAA(v)
		if err != nil {
			return nil, err
		}
	}
	if v, ok := attrValue(start.Attr, "x"); ok {
		x, _ = strconv.ParseFloat(v, 32)
	}
	if v, ok := attrValue(start.Attr, "y"); ok {
		y, _ = strconv.ParseFloat(v, 32)
	}
	it := item.NewTextGraphicsItem(newID(), font, c)
	it.SetText(text)
	if v, ok := attrValue(start.Attr, "transform"); ok {
		if a, err := parseAffine(v); err == nil {
			it.SetTransform(a)
			return it, nil
		}
	}
	it.SetTransform(geom.Offset(geom.Pt(float32(x), float32(y))))
	return it, nil
}

func parseAffine(csv string) (geom.Affine2D, error) {
	fields := strings.Split(csv, ",")
	if len(fields) != 6 {
		return geom.Affine2D{}, fmt.Errorf("xmlsave: transform needs 6 values, got %d", len(fields))
	}
	var v [6]float32
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return geom.Affine2D{}, err
		}
		v[i] = float32(n)
	}
	return geom.NewAffine2D(v[0], v[1], v[2], v[3], v[4], v[5]), nil
}
