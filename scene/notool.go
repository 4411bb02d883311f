package scene

// dispatchNoTool implements §4.5's "No tool click": toggle playback
// if the click landed on a media item, otherwise follow whatever link
// the PDF backend reports at that position.
func (s *SlideScene) dispatchNoTool(e InputEvent) {
	for _, m := range s.Media {
		if m.SceneRect().ContainsPoint(e.Position) {
			m.TogglePlayPause()
			return
		}
	}
	if s.Backend == nil {
		return
	}
	if target, ok := s.Backend.LinkAt(s.Page, e.Position); ok {
		target.Follow()
	}
}
