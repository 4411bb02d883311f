package xmlsave

import (
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/slidepresenter/engine/container"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/style"
	"github.com/slidepresenter/engine/tool"
)

// xournalToolNames mirrors pathoverlay.cpp's toolNames map: Xournal(++)
// only ever writes "pen" or "highlighter" strokes, so those are the
// only tool names this reader recognizes; anything else is skipped,
// per the original's "tool != NoTool" guard.
var xournalToolNames = map[string]tool.Kind{
	"pen":         tool.KindPen,
	"highlighter": tool.KindHighlighter,
}

var pagenoDigits = regexp.MustCompile(`[0-9]+`)

// LoadXournal parses an uncompressed Xournal or Xournal++ save file,
// returning the strokes found on each page keyed by 0-based page
// index (bg/@pageno minus one, per the original's convention). Text
// elements are not handled: pathoverlay.cpp's own loadXournal carries
// a "TODO: handle text" for the same reason — Xournal's text element
// schema (font family/size encoded differently, rotation support) was
// never reconciled with this engine's TextGraphicsItem.
func LoadXournal(r io.Reader, newID func() item.ID) (map[int][]item.Item, error) {
	dec := xml.NewDecoder(r)
	out := map[int][]item.Item{}
	var curPage int
	var havePage bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "xmlsave: decoding xournal file")
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "background":
			if v, ok := attrValue(start.Attr, "pageno"); ok {
				digits := pagenoDigits.FindString(v)
				n, err := strconv.Atoi(digits)
				if err == nil {
					curPage = n - 1
					havePage = true
				}
			}
		case "stroke":
			if !havePage {
				continue
			}
			it, err := readXournalStroke(dec, start, newID)
			if err != nil {
				return nil, err
			}
			if it != nil {
				out[curPage] = append(out[curPage], it)
			}
		}
	}
	return out, nil
}

func readXournalStroke(dec *xml.Decoder, start xml.StartElement, newID func() item.ID) (item.Item, error) {
	text, err := readCharData(dec, "stroke")
	if err != nil {
		return nil, errors.Wrap(err, "xmlsave: reading xournal stroke body")
	}
	toolAttr, _ := attrValue(start.Attr, "tool")
	if _, ok := xournalToolNames[toolAttr]; !ok {
		return nil, nil
	}
	coords, err := parseCoordinates(text)
	if err != nil || len(coords) == 0 {
		return nil, nil
	}
	var s style.Stroke
	if xournalToolNames[toolAttr] == tool.KindHighlighter {
		s.Composition = style.Darken
	}
	if v, ok := attrValue(start.Attr, "color"); ok {
		if c, err := parseXournalColor(v); err == nil {
			s.Color = c
		}
	}
	s.Width = 1.4
	if v, ok := attrValue(start.Attr, "width"); ok {
		if n, err := strconv.ParseFloat(strings.Fields(v)[0], 32); err == nil {
			s.Width = float32(n)
		}
	}
	p := item.NewBasicGraphicsPath(newID(), s)
	for _, c := range coords {
		p.AddPoint(c)
	}
	p.Finalize()
	return p, nil
}

// SaveXournal writes reg's strokes as a Xournal(++)-readable file,
// mirroring pathoverlay.cpp's saveXournal: one <page> per entry in
// pageSizes (in page order), drawings from every page-part container
// flattened onto that page's single Xournal layer, colors written in
// Xournal's on-disk #RRGGBBAA order. Text items and variable-width
// (FullGraphicsPath) strokes are skipped: Xournal's own stroke model
// has no per-segment width, and text is skipped for the same reason
// LoadXournal never reads it.
func SaveXournal(w io.Writer, reg *container.Registry, pageSizes []geomSize, pdfPath string) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	root := xml.StartElement{Name: xml.Name{Local: "xournal"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "creator"}, Value: "slidepresenter-engine"},
	}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for page, size := range pageSizes {
		if err := writeXournalPage(enc, reg, page, size, pdfPath); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

// geomSize is the page width/height pair SaveXournal needs per page;
// kept local rather than importing geom.Point to avoid implying these
// are scene coordinates rather than a page's physical PDF dimensions.
type geomSize struct{ Width, Height float32 }

func writeXournalPage(enc *xml.Encoder, reg *container.Registry, page int, size geomSize, pdfPath string) error {
	pageStart := xml.StartElement{Name: xml.Name{Local: "page"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "width"}, Value: formatFloat(size.Width)},
		{Name: xml.Name{Local: "height"}, Value: formatFloat(size.Height)},
	}}
	if err := enc.EncodeToken(pageStart); err != nil {
		return err
	}
	bg := xml.StartElement{Name: xml.Name{Local: "background"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "type"}, Value: "pdf"},
		{Name: xml.Name{Local: "filename"}, Value: pdfPath},
		{Name: xml.Name{Local: "pageno"}, Value: strconv.Itoa(page+1) + "ll"},
	}}
	if err := enc.EncodeToken(bg); err != nil {
		return err
	}
	if err := enc.EncodeToken(bg.End()); err != nil {
		return err
	}
	layer := xml.StartElement{Name: xml.Name{Local: "layer"}}
	if err := enc.EncodeToken(layer); err != nil {
		return err
	}
	for _, part := range []container.PagePart{container.PartFull, container.PartLeft, container.PartRight} {
		if !reg.Has(page, part) {
			continue
		}
		c, _ := reg.Get(page, part)
		for _, it := range c.VisibleItems() {
			p, ok := it.(*item.BasicGraphicsPath)
			if !ok {
				continue
			}
			if err := writeXournalStroke(enc, p); err != nil {
				return err
			}
		}
	}
	if err := enc.EncodeToken(layer.End()); err != nil {
		return err
	}
	return enc.EncodeToken(pageStart.End())
}

func writeXournalStroke(enc *xml.Encoder, p *item.BasicGraphicsPath) error {
	toolAttr := "pen"
	if p.Tool().Composition == style.Darken {
		toolAttr = "highlighter"
	}
	start := xml.StartElement{Name: xml.Name{Local: "stroke"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "tool"}, Value: toolAttr},
		{Name: xml.Name{Local: "color"}, Value: formatXournalColor(p.Tool().Color)},
		{Name: xml.Name{Local: "width"}, Value: formatFloat(p.Tool().Width)},
	}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(coordinateText(item.StringCoordinates(p, p.Coordinates())))); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// ImportXournal loads a Xournal(++) file and inserts its strokes into
// reg at PartFull for each page, mirroring pathoverlay.cpp's behavior
// of treating an imported drawing as if freshly drawn on that page.
func ImportXournal(r io.Reader, reg *container.Registry, newID func() item.ID) error {
	pages, err := LoadXournal(r, newID)
	if err != nil {
		return err
	}
	for page, items := range pages {
		c, _ := reg.Get(page, container.PartFull)
		if err := c.AddPathsForeground(items); err != nil {
			return err
		}
	}
	return nil
}
