package easel

import (
	"image/color"
	"math"

	"github.com/esimov/easel/utils"
)

// StrokeConfig describes how a tool paints. It is supplied on every draw
// call and is never retained by the tools.
type StrokeConfig struct {
	Color    color.NRGBA
	Diameter float64
	Opacity  float64
	// Op is the composition operator (see package imop); empty means source-over.
	Op string
}

// Jitter is the source of randomness used by the scattering tools.
// *rand.Rand satisfies it.
type Jitter interface {
	Float64() float64
}

// StrokeSegment paints a round-capped segment between from and to.
// A pixel is covered when its lattice point lies within half the diameter
// of the segment (never less than half a pixel), so contiguous segments
// sharing an endpoint join without gaps. Each covered pixel is composited
// exactly once per call.
func (s *Surface) StrokeSegment(from, to Point, cfg StrokeConfig) {
	r := utils.Max(cfg.Diameter/2, 0.5)

	x0 := int(math.Floor(utils.Min(from.X, to.X) - r))
	x1 := int(math.Ceil(utils.Max(from.X, to.X) + r))
	y0 := int(math.Floor(utils.Min(from.Y, to.Y) - r))
	y1 := int(math.Ceil(utils.Max(from.Y, to.Y) + r))

	x0, y0 = utils.Max(x0, 0), utils.Max(y0, 0)
	x1, y1 = utils.Min(x1, s.Width()-1), utils.Min(y1, s.Height()-1)

	r2 := r*r + 1e-9
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if segmentDist2(Pt(float64(x), float64(y)), from, to) <= r2 {
				s.plot(x, y, cfg.Color, cfg.Opacity, cfg.Op)
			}
		}
	}
}

// ScatterDabs places count single-pixel dabs around center. The offsets are
// uniformly distributed in [-radius/2, radius/2] on both axes. With
// jitterOpacity every dab gets its own alpha drawn from [0, cfg.Opacity],
// otherwise cfg.Opacity is used as is.
func (s *Surface) ScatterDabs(center Point, radius float64, count int, cfg StrokeConfig, jitterOpacity bool, rnd Jitter) {
	for i := 0; i < count; i++ {
		off := jitterOffset(radius, rnd)
		alpha := cfg.Opacity
		if jitterOpacity {
			alpha = rnd.Float64() * cfg.Opacity
		}
		p := center.Add(off).Pixel()
		s.plot(p.X, p.Y, cfg.Color, alpha, cfg.Op)
	}
}

// jitterOffset returns a random offset with both components in [-d/2, d/2].
func jitterOffset(d float64, rnd Jitter) Point {
	d = utils.Max(d, 0)
	return Point{
		X: rnd.Float64()*d - d/2,
		Y: rnd.Float64()*d - d/2,
	}
}

// segmentDist2 returns the squared distance between p and the segment ab.
func segmentDist2(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = utils.Clamp(((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2, 0, 1)
	}
	qx, qy := a.X+t*dx-p.X, a.Y+t*dy-p.Y
	return qx*qx + qy*qy
}
