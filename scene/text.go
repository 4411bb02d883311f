package scene

import (
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/item"
	"github.com/slidepresenter/engine/tool"
)

// focusedText is the text item currently being edited, if any.
type focusedText struct {
	id item.ID
}

// dispatchText implements §4.5's Text tool (Start): focus an existing
// text item under the click, or create a fresh one at the click
// location with the tool's font and color.
func (s *SlideScene) dispatchText(t *tool.TextTool, e InputEvent) error {
	if e.Phase != PhaseStart {
		return nil
	}
	if id, ok := s.textItemAt(e.Position); ok {
		s.focused = &focusedText{id: id}
		return nil
	}
	it := item.NewTextGraphicsItem(s.newItemID(), t.Font, t.Color)
	it.SetTransform(geom.Offset(e.Position))
	if err := s.Container.AppendForeground(it); err != nil {
		return err
	}
	s.focused = &focusedText{id: it.ID()}
	return nil
}

func (s *SlideScene) textItemAt(pos geom.Point) (item.ID, bool) {
	items := s.Container.VisibleItems()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.Kind() != item.KindText {
			continue
		}
		if item.SceneBoundingRect(it).ContainsPoint(pos) {
			return it.ID(), true
		}
	}
	return 0, false
}

// CommitFocusedText writes newText into the focused text item,
// removing it from the scene instead if newText is empty, per §3's
// "empty text means delete me" placeholder semantics.
func (s *SlideScene) CommitFocusedText(newText string) error {
	if s.focused == nil {
		return nil
	}
	id := s.focused.id
	s.focused = nil
	it, ok := s.Container.Get(id)
	if !ok {
		return nil
	}
	text, ok := it.(*item.TextGraphicsItem)
	if !ok {
		return nil
	}
	text.SetText(newText)
	if text.IsPlaceholder() {
		return s.Container.RemoveItems([]item.ID{id})
	}
	return nil
}
