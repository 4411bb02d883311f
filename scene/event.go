// Package scene implements the per-live-page SlideScene of §4.5: it
// owns the scene state of §3, normalizes input into InputEvent
// records, and dispatches them to whichever tool is bound to the
// event's device, mutating the scene's PathContainer and selection.
package scene

import (
	"github.com/slidepresenter/engine/geom"
	"github.com/slidepresenter/engine/tool"
)

// Phase is the stage of a multi-event input gesture, per §4.5's event
// normalization.
type Phase uint8

const (
	PhaseStart Phase = iota
	PhaseUpdate
	PhaseStop
	PhaseCancel
)

// InputEvent is the normalized input record every concrete GUI
// toolkit event is converted to at the boundary, per Design Notes
// §9's "normalize every input at the boundary into a single
// InputEvent{device, phase, positions, pressure} record".
type InputEvent struct {
	Device      tool.Device
	Phase       Phase
	Slot        int // multi-touch slot index; 0 for mouse/pen
	Position    geom.Point
	Pressure    float32
	HasPressure bool
}
