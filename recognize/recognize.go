// Package recognize implements the post-stroke shape recognizer of
// §4.3: it fits lines, rectangles and ellipses to a finalized
// freehand path using weighted geometric moments, and decides whether
// the fit is good enough to replace the stroke.
package recognize

import (
	"math"

	"github.com/slidepresenter/engine/geom"
)

// Thresholds are the recognizer's configurable sensitivities, sourced
// from the settings store of §6.
type Thresholds struct {
	LineSensitivity        float32
	SnapAngle              float32
	EllipseSensitivity     float32
	EllipseToCircleSnap    float32
	RectAngleTolerance     float32
	RectClosingTolerance   float32
}

// DefaultThresholds match the constants BeamerPresenter ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LineSensitivity:      0.005,
		SnapAngle:            0.06,
		EllipseSensitivity:   0.02,
		EllipseToCircleSnap:  0.05,
		RectAngleTolerance:   0.1,
		RectClosingTolerance: 0.1,
	}
}

// Kind is the shape a recognition pass decided on.
type Kind uint8

const (
	None Kind = iota
	Line
	Rect
	Ellipse
)

// Result is the geometric output of a successful recognition.
type Result struct {
	Kind Kind
	// Line: Points holds the two endpoints.
	// Rect: Points holds the four corners in order.
	// Ellipse: Center, RX, RY hold the fit; Points is empty.
	Points         []geom.Point
	Center         geom.Point
	RX, RY         float32
}

// moments accumulates weighted geometric moments over path points: the
// line fit of §4.3 is a closed form over exactly these six sums. The
// ellipse fit's loss/gradients are evaluated directly over the points
// themselves (see ellipseFit), so no higher-order moments are needed
// here.
type moments struct {
	s, sx, sy, sxx, sxy, syy float64
}

func (m *moments) add(p geom.Point, w float64) {
	x, y := float64(p.X), float64(p.Y)
	m.s += w
	m.sx += w * x
	m.sy += w * y
	m.sxx += w * x * x
	m.sxy += w * x * y
	m.syy += w * y * y
}

func (m *moments) addAll(pts []geom.Point, weights []float32) moments {
	out := *m
	for i, p := range pts {
		w := 1.0
		if weights != nil {
			w = float64(weights[i])
		}
		out.add(p, w)
	}
	return out
}

// lineFit is the closed-form best-fit line through the accumulated
// moments, per §4.3.
type lineFit struct {
	center geom.Point
	angle  float32
	loss   float64
}

func fitLine(m moments) lineFit {
	if m.s == 0 {
		return lineFit{}
	}
	n := m.sy*m.sy - m.s*m.syy + m.s*m.sxx - m.sx*m.sx
	d := 2 * (m.sx*m.sy - m.s*m.sxy)
	ay := n - math.Sqrt(n*n+d*d)
	center := geom.Pt(float32(m.sx/m.s), float32(m.sy/m.s))
	angle := foldAngle(math.Atan2(ay, d))

	denom := (d*d + ay*ay) * (m.s*m.sxx - m.sx*m.sx + m.s*m.syy - m.sy*m.sy)
	var loss float64
	if denom != 0 {
		loss = (d*d*(m.s*m.syy-m.sy*m.sy) + ay*ay*(m.s*m.sxx-m.sx*m.sx) + 2*d*ay*(m.sx*m.sy-m.s*m.sxy)) / denom
	}
	return lineFit{center: center, angle: float32(angle), loss: loss}
}

func foldAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// segment is one run of the stroke committed during line
// segmentation.
type segment struct {
	m     moments
	fit   lineFit
	start int
	end   int
}

// segmentLine walks the stroke in steps of N/50 points (at least one),
// fitting a running line and cutting a new segment whenever the loss
// exceeds 0.005 or grows too fast relative to the previous step, per
// §4.3. Adjacent segments whose angle differs by < 0.3 rad (mod pi)
// and whose combined fit is still under 0.005 loss are merged.
func segmentLine(pts []geom.Point, weights []float32) []segment {
	n := len(pts)
	if n < 3 {
		return nil
	}
	step := n / 50
	if step < 1 {
		step = 1
	}
	var segs []segment
	var run moments
	start := 0
	prevLoss := 0.0
	for i := step; i < n; i += step {
		trial := run.addAll(pts[start:i], sliceWeights(weights, start, i))
		fit := fitLine(trial)
		grew := fit.loss-prevLoss > 8*float64(step)/float64(i-start)
		if (fit.loss > 0.005 || grew) && i-start > step {
			committed := run.addAll(pts[start:i-step], sliceWeights(weights, start, i-step))
			segs = append(segs, segment{m: committed, fit: fitLine(committed), start: start, end: i - step})
			start = i - step
			run = moments{}
			prevLoss = 0
			continue
		}
		prevLoss = fit.loss
	}
	final := run.addAll(pts[start:n], sliceWeights(weights, start, n))
	segs = append(segs, segment{m: final, fit: fitLine(final), start: start, end: n})
	return mergeSegments(segs)
}

func sliceWeights(weights []float32, from, to int) []float32 {
	if weights == nil {
		return nil
	}
	return weights[from:to]
}

func mergeSegments(segs []segment) []segment {
	merged := true
	for merged && len(segs) > 1 {
		merged = false
		out := segs[:0:0]
		i := 0
		for i < len(segs) {
			if i+1 < len(segs) {
				a, b := segs[i], segs[i+1]
				diff := float64(a.fit.angle - b.fit.angle)
				diff = math.Abs(foldAngle(diff))
				if diff < 0.3 || math.Abs(diff-math.Pi) < 0.3 {
					combined := combineMoments(a.m, b.m)
					fit := fitLine(combined)
					if fit.loss < 0.005 {
						out = append(out, segment{m: combined, fit: fit, start: a.start, end: b.end})
						i += 2
						merged = true
						continue
					}
				}
			}
			out = append(out, segs[i])
			i++
		}
		segs = out
	}
	return segs
}

func combineMoments(a, b moments) moments {
	return moments{
		s: a.s + b.s, sx: a.sx + b.sx, sy: a.sy + b.sy,
		sxx: a.sxx + b.sxx, sxy: a.sxy + b.sxy, syy: a.syy + b.syy,
	}
}

// Recognize runs the full recognition pass over a finalized path:
// line decision, then (if line fails) rectangle decision via the
// segmented fit, then ellipse gradient-descent fit. weights is nil
// for a BasicGraphicsPath (uniform weight) or per-point pressure for
// a FullGraphicsPath.
func Recognize(pts []geom.Point, weights []float32, bounds geom.Rectangle, th Thresholds) (Result, bool) {
	if len(pts) < 3 {
		return Result{}, false
	}
	var all moments
	all = all.addAll(pts, weights)
	whole := fitLine(all)
	if whole.loss <= float64(th.LineSensitivity) {
		return lineResult(pts, bounds, whole, th), true
	}

	segs := segmentLine(pts, weights)
	if len(segs) == 4 {
		if r, ok := rectResult(pts, segs, all, th); ok {
			return r, true
		}
	}

	if r, ok := ellipseFit(pts, weights, th); ok {
		return r, true
	}
	return Result{}, false
}

func lineResult(pts []geom.Point, bounds geom.Rectangle, fit lineFit, th Thresholds) Result {
	dir := geom.Pt(float32(math.Cos(float64(fit.angle))), float32(math.Sin(float64(fit.angle))))
	// Project the bounding rect corners onto the fitted direction to
	// find the line's edge-to-edge extent.
	var minT, maxT float32
	first := true
	for _, c := range []geom.Point{
		{X: bounds.Min.X, Y: bounds.Min.Y}, {X: bounds.Max.X, Y: bounds.Min.Y},
		{X: bounds.Max.X, Y: bounds.Max.Y}, {X: bounds.Min.X, Y: bounds.Max.Y},
	} {
		t := c.Sub(fit.center).Dot(dir)
		if first || t < minT {
			minT = t
		}
		if first || t > maxT {
			maxT = t
		}
		first = false
	}
	start := fit.center.Add(dir.Mul(minT))
	end := fit.center.Add(dir.Mul(maxT))
	if snapped, ok := snapAxis(start, end, th.SnapAngle); ok {
		start, end = snapped[0], snapped[1]
	}
	_ = pts
	return Result{Kind: Line, Points: []geom.Point{start, end}}
}

func snapAxis(a, b geom.Point, tol float32) ([2]geom.Point, bool) {
	d := b.Sub(a)
	angle := math.Atan2(float64(d.Y), float64(d.X))
	angle = foldAngle(angle)
	snap := func(target float64) bool { return math.Abs(foldAngle(angle-target)) < float64(tol) }
	switch {
	case snap(0), snap(math.Pi):
		y := (a.Y + b.Y) / 2
		return [2]geom.Point{{X: a.X, Y: y}, {X: b.X, Y: y}}, true
	case snap(math.Pi / 2), snap(-math.Pi / 2):
		x := (a.X + b.X) / 2
		return [2]geom.Point{{X: x, Y: a.Y}, {X: x, Y: b.Y}}, true
	}
	return [2]geom.Point{}, false
}

func rectResult(pts []geom.Point, segs []segment, all moments, th Thresholds) (Result, bool) {
	startEndDist := pts[0].Sub(pts[len(pts)-1]).Len()
	variance := float32(0)
	if all.s > 0 {
		variance = float32((all.sxx-all.sx*all.sx/all.s+all.syy-all.sy*all.sy/all.s) / all.s)
	}
	closeTol := float32(math.Sqrt(float64(th.RectClosingTolerance) * float64(variance)))
	if startEndDist > closeTol && closeTol > 0 {
		return Result{}, false
	}
	base := segs[0].fit.angle
	for i, s := range segs {
		expect := base + float32(i%2)*math.Pi/2
		diff := foldAngle(float64(s.fit.angle - expect))
		if math.Abs(diff) > float64(th.RectAngleTolerance)*all.s && math.Abs(math.Abs(diff)-math.Pi) > float64(th.RectAngleTolerance)*all.s {
			return Result{}, false
		}
	}
	corners := make([]geom.Point, 4)
	for i := 0; i < 4; i++ {
		corners[i] = intersectLines(segs[i].fit, segs[(i+1)%4].fit)
	}
	return Result{Kind: Rect, Points: corners}, true
}

func intersectLines(a, b lineFit) geom.Point {
	da := geom.Pt(float32(math.Cos(float64(a.angle))), float32(math.Sin(float64(a.angle))))
	db := geom.Pt(float32(math.Cos(float64(b.angle))), float32(math.Sin(float64(b.angle))))
	denom := da.X*db.Y - da.Y*db.X
	if denom == 0 {
		return a.center
	}
	t := ((b.center.X-a.center.X)*db.Y - (b.center.Y-a.center.Y)*db.X) / denom
	return a.center.Add(da.Mul(t))
}

// ellipseFit minimizes L(mx,my,ax,ay) = sum w_k*[(x-mx)^2*ax + (y-my)^2*ay - 1]^2
// with gradient descent, per §4.3.
func ellipseFit(pts []geom.Point, weights []float32, th Thresholds) (Result, bool) {
	var b geom.Rectangle
	b = geom.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts {
		b = b.Union(geom.Rectangle{Min: p, Max: p})
	}
	mx, my := b.Center().X, b.Center().Y
	rx, ry := b.Dx()/2, b.Dy()/2
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	ax, ay := 1/(rx*rx), 1/(ry*ry)

	weight := func(i int) float32 {
		if weights == nil {
			return 1
		}
		return weights[i]
	}
	var s float32
	for i := range pts {
		s += weight(i)
	}

	var L float32
	for i := 0; i < 12; i++ {
		var gmx, gmy, gax, gay float32
		L = 0
		for k, p := range pts {
			w := weight(k)
			dx, dy := p.X-mx, p.Y-my
			residual := dx*dx*ax + dy*dy*ay - 1
			L += w * residual * residual
			gmx += -2 * w * residual * ax * dx
			gmy += -2 * w * residual * ay * dy
			gax += 2 * w * residual * dx * dx
			gay += 2 * w * residual * dy * dy
		}
		const eps = 1e-3
		if abs32(gmx)*(rx+ry) < eps*s && abs32(gmy)*(rx+ry) < eps*s &&
			abs32(gax)*ax < eps*s && abs32(gay)*ay < eps*s {
			break
		}
		fi := float32(1 + i*i)
		if gm := geom.Pt(gmx, gmy).Len(); gm > 0 {
			mnorm := 0.07 / (fi * gm)
			mx -= (rx + ry) * mnorm * gmx
			my -= (rx + ry) * mnorm * gmy
		}
		if ga := geom.Pt(gax, gay).Len(); ga > 0 {
			anorm := 0.15 / (fi * ga)
			ax -= ax * anorm * gax
			ay -= ay * anorm * gay
		}
	}
	if ax <= 0 || ay <= 0 {
		return Result{}, false
	}
	rx, ry = 1/float32(math.Sqrt(float64(ax))), 1/float32(math.Sqrt(float64(ay)))
	if L/(s+10) > th.EllipseSensitivity {
		return Result{}, false
	}
	closing := pts[0].Sub(pts[len(pts)-1]).Len()
	if closing >= 0.1*(rx+ry) {
		return Result{}, false
	}
	if abs32(rx-ry) < th.EllipseToCircleSnap*(rx+ry) {
		r := (rx + ry) / 2
		rx, ry = r, r
	}
	return Result{Kind: Ellipse, Center: geom.Pt(mx, my), RX: rx, RY: ry}, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
