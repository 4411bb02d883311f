package transition

import "math"

// Ease maps a progress fraction in [0,1] to an eased fraction in
// [0,1]. No pack repo ships an animation-easing library, so these are
// the handful of named curves §4.6's table requires, implemented
// directly against math — stdlib is the right call for five one-line
// trigonometric functions, not a dependency gap.
type Ease func(t float64) float64

func linear(t float64) float64 { return t }

// sineInOut is the symmetric curve the table's unqualified "sine
// easing" entries (Fly, Push) use.
func sineInOut(t float64) float64 { return 0.5 * (1 - math.Cos(math.Pi*t)) }

func sineIn(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

func sineOut(t float64) float64 { return math.Sin(t * math.Pi / 2) }

func quartIn(t float64) float64 { return t * t * t * t }

func quartOut(t float64) float64 { d := 1 - t; return 1 - d*d*d*d }
