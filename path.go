package easel

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/esimov/easel/utils"
	"golang.org/x/image/vector"
)

// curveSteps is the number of line segments a cubic Bézier is flattened into.
const curveSteps = 24

// coverageThreshold is the minimum rasterizer coverage (out of 0xff) a pixel
// needs to be painted by a shape fill. Fills are hard-edged like the strokes.
const coverageThreshold = 0x80

// cubicTo appends the flattened cubic Bézier p0,c1,c2,p3 to pts, without p0.
func cubicTo(pts []Point, p0, c1, c2, p3 Point) []Point {
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
		pts = append(pts, Point{
			X: a*p0.X + b*c1.X + c*c2.X + d*p3.X,
			Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p3.Y,
		})
	}
	return pts
}

// circlePoints approximates the circle of center c and radius r by a closed polygon.
func circlePoints(c Point, r float64) []Point {
	n := utils.Max(32, int(math.Ceil(2*math.Pi*r/2)))
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return pts
}

// fillPolygon paints the interior of the closed polygon pts (non-zero winding).
// The rasterizer works on pixel areas, so the path is shifted by half a pixel
// to keep pixel (x, y) centered on the lattice point (x, y).
func (s *Surface) fillPolygon(pts []Point, c color.NRGBA, alpha float64, op string) {
	if len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = utils.Min(minX, p.X), utils.Max(maxX, p.X)
		minY, maxY = utils.Min(minY, p.Y), utils.Max(maxY, p.Y)
	}
	area := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+2, int(math.Ceil(maxY))+2,
	).Intersect(s.Bounds())
	if area.Empty() {
		return
	}

	ox, oy := float64(area.Min.X)-0.5, float64(area.Min.Y)-0.5
	z := vector.NewRasterizer(area.Dx(), area.Dy())
	z.DrawOp = draw.Src
	z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, area.Dx(), area.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] >= coverageThreshold {
				s.plot(area.Min.X+x, area.Min.Y+y, c, alpha, op)
			}
		}
	}
}

// strokePolyline outlines the polyline pts with round-capped segments.
// Every pixel is composited at most once, so translucent outlines do not
// darken where segments meet.
func (s *Surface) strokePolyline(pts []Point, closed bool, cfg StrokeConfig) {
	if len(pts) == 0 {
		return
	}
	if closed && len(pts) > 1 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	if len(pts) == 1 {
		s.StrokeSegment(pts[0], pts[0], cfg)
		return
	}

	r := utils.Max(cfg.Diameter/2, 0.5)
	r2 := r*r + 1e-9

	bounds := s.Bounds()
	covered := make(map[image.Point]struct{})
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := image.Rect(
			int(math.Floor(utils.Min(a.X, b.X)-r)), int(math.Floor(utils.Min(a.Y, b.Y)-r)),
			int(math.Ceil(utils.Max(a.X, b.X)+r))+1, int(math.Ceil(utils.Max(a.Y, b.Y)+r))+1,
		).Intersect(bounds)

		for y := seg.Min.Y; y < seg.Max.Y; y++ {
			for x := seg.Min.X; x < seg.Max.X; x++ {
				if segmentDist2(Pt(float64(x), float64(y)), a, b) <= r2 {
					covered[image.Pt(x, y)] = struct{}{}
				}
			}
		}
	}
	for p := range covered {
		s.plot(p.X, p.Y, cfg.Color, cfg.Opacity, cfg.Op)
	}
}
