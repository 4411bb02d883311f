package transition

import "image"

// FlyDiff builds the difference pixmap the Fly/FlyRectangle effects
// translate across the slide: for each pixel it picks the smallest
// alpha a and color c such that (1-a)*old + a*c == new, per channel,
// so compositing the diff over old at that alpha reproduces new
// exactly. old and new must have the same bounds.
func FlyDiff(old, newImg image.Image) *image.NRGBA {
	b := old.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			or, og, ob, _ := old.At(x, y).RGBA()
			nr, ng, nb, na := newImg.At(x, y).RGBA()
			oc := [3]float64{float64(or) / 65535, float64(og) / 65535, float64(ob) / 65535}
			nc := [3]float64{float64(nr) / 65535, float64(ng) / 65535, float64(nb) / 65535}
			alpha := minAlphaFor(oc, nc)
			var dc [3]float64
			for i := range dc {
				if alpha <= 0 {
					dc[i] = nc[i]
					continue
				}
				dc[i] = clamp01((nc[i] - (1-alpha)*oc[i]) / alpha)
			}
			px := out.PixOffset(x, y)
			out.Pix[px+0] = byte(dc[0]*255 + 0.5)
			out.Pix[px+1] = byte(dc[1]*255 + 0.5)
			out.Pix[px+2] = byte(dc[2]*255 + 0.5)
			out.Pix[px+3] = byte(alpha*255 + 0.5)
			_ = na
		}
	}
	return out
}

// minAlphaFor finds the smallest alpha in (0,1] for which every
// channel's required diff color stays within [0,1].
func minAlphaFor(old, new [3]float64) float64 {
	var alpha float64
	for i := range old {
		var need float64
		switch {
		case new[i] > old[i]:
			if old[i] >= 1 {
				need = 1
			} else {
				need = (new[i] - old[i]) / (1 - old[i])
			}
		case new[i] < old[i]:
			if old[i] <= 0 {
				need = 1
			} else {
				need = (old[i] - new[i]) / old[i]
			}
		default:
			need = 0
		}
		if need > alpha {
			alpha = need
		}
	}
	if alpha <= 0 {
		return 0
	}
	return clamp01(alpha)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
