// Package media is the page-addressed registry of media items named in
// §2's "Media subsystem": it turns PDF media annotations into items with
// a play/pause/mute lifecycle, reusing a single item across the pages it
// appears on and shedding its playback provider once it scrolls out of
// view.
package media

import "github.com/slidepresenter/engine/geom"

// Type is the media_annotation source kind returned by the PDF backend's
// annotations(index) operation (§6).
type Type uint8

const (
	ExternalURL Type = iota
	EmbeddedFile
	EmbeddedAudioStream
)

// Flags mirrors the original's per-annotation bitmask.
type Flags uint16

const (
	HasAudio Flags = 1 << iota
	HasVideo
	Autoplay
	IsLive
	IsCaptureSession
	ShowSlider
	Interactive
	Mute
)

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Mode is the playback mode named in §9 Open Question 1 and the
// original's MediaAnnotation::Mode.
type Mode int8

const (
	ModeOnce Mode = iota
	ModeOpen
	ModePalindrome
	ModeRepeat
)

// Annotation describes one media_annotation as handed back by the PDF
// backend: either an external URL, an embedded file buffer, or an
// embedded raw audio stream.
type Annotation struct {
	Type   Type
	Rect   geom.Rectangle
	Mode   Mode
	Flags  Flags
	Volume float32

	// URL is set for Type == ExternalURL.
	URL string
	// Data is the embedded payload for EmbeddedFile/EmbeddedAudioStream.
	Data []byte
	// SampleRate applies to EmbeddedAudioStream only.
	SampleRate int
}

// Equal reports whether a and other describe the same media annotation,
// matching the original's per-type operator== (type, mode, rect, and a
// cheap payload fingerprint rather than a full byte-for-byte compare).
func (a Annotation) Equal(other Annotation) bool {
	if a.Type != other.Type || a.Mode != other.Mode || a.Rect != other.Rect {
		return false
	}
	switch a.Type {
	case ExternalURL:
		return a.URL == other.URL
	default:
		if len(a.Data) != len(other.Data) {
			return false
		}
		n := len(a.Data)
		if n > 32 {
			n = 32
		}
		for i := 0; i < n; i++ {
			if a.Data[i] != other.Data[i] {
				return false
			}
		}
		return true
	}
}
