package transition

func (a *Animator) splitFrame(t float64) Frame {
	e := sineInOut(t)
	frac := float32(e)
	var m Mask
	if a.Record.Inward {
		// hole grows from a zero-width centerline to the full rect
		if a.Record.Orientation == Vertical {
			m = Mask{Kind: MaskInverseRect, Rect: centeredRect(a.SlideRect, frac, 1)}
		} else {
			m = Mask{Kind: MaskInverseRect, Rect: centeredRect(a.SlideRect, 1, frac)}
		}
	} else {
		// remaining snapshot shrinks from the full rect to a centerline
		remaining := 1 - frac
		if a.Record.Orientation == Vertical {
			m = Mask{Kind: MaskRect, Rect: centeredRect(a.SlideRect, remaining, 1)}
		} else {
			m = Mask{Kind: MaskRect, Rect: centeredRect(a.SlideRect, 1, remaining)}
		}
	}
	return Frame{Mask: m, OldOpacity: 1, NewOpacity: 1, ShowNew: true}
}

func (a *Animator) blindsFrame(t float64) Frame {
	e := sineInOut(t)
	remaining := float32(1 - e)
	m := Mask{
		Kind:            MaskBlinds,
		BlindsN:         a.Record.blindsCount(),
		BlindsAxis:      a.Record.Orientation,
		BlindsRemaining: remaining,
	}
	return Frame{Mask: m, OldOpacity: 1, NewOpacity: 1, ShowNew: true}
}

func (a *Animator) boxFrame(t float64) Frame {
	e := float32(sineInOut(t))
	var m Mask
	if a.Record.Inward {
		m = Mask{Kind: MaskInverseRect, Rect: centeredRect(a.SlideRect, e, e)}
	} else {
		m = Mask{Kind: MaskRect, Rect: centeredRect(a.SlideRect, 1-e, 1-e)}
	}
	return Frame{Mask: m, OldOpacity: 1, NewOpacity: 1, ShowNew: true}
}

func (a *Animator) wipeFrame(t float64) Frame {
	e := t
	r := a.SlideRect
	switch normalizeAngle(a.Record.Angle) {
	case 0: // collapses toward the right edge
		r.Min.X = lerp32(a.SlideRect.Min.X, a.SlideRect.Max.X, e)
	case 180: // collapses toward the left edge
		r.Max.X = lerp32(a.SlideRect.Max.X, a.SlideRect.Min.X, e)
	case 90: // collapses toward the bottom edge
		r.Min.Y = lerp32(a.SlideRect.Min.Y, a.SlideRect.Max.Y, e)
	default: // 270, collapses toward the top edge
		r.Max.Y = lerp32(a.SlideRect.Max.Y, a.SlideRect.Min.Y, e)
	}
	return Frame{Mask: Mask{Kind: MaskRect, Rect: r}, OldOpacity: 1, NewOpacity: 1, ShowNew: true}
}

func (a *Animator) dissolveFrame(t float64) Frame {
	return Frame{OldOpacity: float32(1 - t), NewOpacity: 1, ShowNew: true}
}

func (a *Animator) glitterFrame(t float64) Frame {
	progress := GlitterTiles - int(t*float64(GlitterTiles))
	if progress < 0 {
		progress = 0
	}
	return Frame{
		Mask:       Mask{Kind: MaskGlitter, GlitterProgress: progress},
		OldOpacity: 1, NewOpacity: 1, ShowNew: true,
	}
}

func (a *Animator) flyFrame(t float64) Frame {
	e := sineInOut(t)
	dir := directionVector(a.Record.Angle)
	size := travelDistance(a.SlideRect, dir)
	if a.Record.Inward {
		frac := float32(1 - e)
		return Frame{
			DiffOffset: dir.Mul(size * frac),
			ShowDiff:   true,
			ShowNew:    false,
			OldOpacity: 1, NewOpacity: 1,
		}
	}
	frac := float32(e)
	return Frame{
		DiffOffset: dir.Mul(size * frac),
		ShowDiff:   true,
		ShowNew:    true,
		OldOpacity: 1, NewOpacity: 1,
	}
}

func (a *Animator) pushFrame(t float64) Frame {
	e := float32(sineInOut(t))
	dir := directionVector(a.Record.Angle)
	size := travelDistance(a.SlideRect, dir)
	return Frame{
		OldOffset:  dir.Mul(size * e),
		NewOffset:  dir.Mul(size * (e - 1)),
		OldOpacity: 1, NewOpacity: 1,
		ShowNew: true,
	}
}

func (a *Animator) coverFrame(t float64) Frame {
	e := float32(sineOut(t))
	dir := directionVector(a.Record.Angle)
	size := travelDistance(a.SlideRect, dir)
	return Frame{
		NewOffset:  dir.Mul(size * (e - 1)),
		OldOpacity: 1, NewOpacity: 1,
		ShowNew: true,
	}
}

func (a *Animator) uncoverFrame(t float64) Frame {
	e := float32(sineIn(t))
	dir := directionVector(a.Record.Angle)
	size := travelDistance(a.SlideRect, dir)
	return Frame{
		OldOffset:  dir.Mul(size * e),
		OldOpacity: 1, NewOpacity: 1,
		ShowNew: true,
	}
}

func (a *Animator) fadeFrame(t float64) Frame {
	return Frame{
		OldOpacity: float32(1 - quartOut(t)),
		NewOpacity: float32(quartIn(t)),
		ShowNew:    true,
	}
}
