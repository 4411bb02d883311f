package pdfbackend

import "github.com/slidepresenter/engine/media"

// Kind discriminates the four link variants §4's "No tool click"
// handler distinguishes: internal navigation, action, external URL, or
// media link.
type Kind uint8

const (
	KindNavigation Kind = iota
	KindAction
	KindExternalURL
	KindMedia
)

// Navigator is the narrow surface a GUI toolkit host implements to
// carry out a followed link; kept separate from Link so test code can
// supply a fake without touching a real window.
type Navigator interface {
	NavigateToPage(page int)
	RunAction(action string)
	OpenURL(url string)
	ToggleMedia(a media.Annotation)
}

// Link implements scene.LinkTarget, dispatching Follow to the bound
// Navigator according to Kind.
type Link struct {
	Kind       Kind
	TargetPage int
	Action     string
	URL        string
	Media      media.Annotation
	Navigator  Navigator
}

// Follow implements scene.LinkTarget.
func (l Link) Follow() {
	if l.Navigator == nil {
		return
	}
	switch l.Kind {
	case KindNavigation:
		l.Navigator.NavigateToPage(l.TargetPage)
	case KindAction:
		l.Navigator.RunAction(l.Action)
	case KindExternalURL:
		l.Navigator.OpenURL(l.URL)
	case KindMedia:
		l.Navigator.ToggleMedia(l.Media)
	}
}
