package easel

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/esimov/easel/utils"
)

// ShapeKind identifies one of the parametric shapes.
type ShapeKind int

// The supported shapes.
const (
	ShapeLine ShapeKind = iota
	ShapeRectangle
	ShapeCircle
	ShapeTriangle
	ShapeStar
	ShapeHeart
)

// starLineWidth is the fixed outline width of the star shape.
const starLineWidth = 2

var shapeNames = map[ShapeKind]string{
	ShapeLine:      "line",
	ShapeRectangle: "rectangle",
	ShapeCircle:    "circle",
	ShapeTriangle:  "triangle",
	ShapeStar:      "star",
	ShapeHeart:     "heart",
}

// Label returns the capitalized name of the shape.
func (k ShapeKind) Label() string {
	name := k.String()
	if _, ok := shapeNames[k]; !ok {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (k ShapeKind) String() string {
	if name, ok := shapeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// ParseShape returns the shape kind with the given (case insensitive) name.
func ParseShape(name string) (ShapeKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "rect" {
		name = "rectangle"
	}
	for k, n := range shapeNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// ShapeStyle holds the paint parameters of a shape.
type ShapeStyle struct {
	Fill  bool
	Color color.NRGBA
	// Width is the outline width; values below 1 are treated as 1.
	Width float64
}

func (st ShapeStyle) outline() StrokeConfig {
	return StrokeConfig{
		Color:    st.Color,
		Diameter: utils.Max(st.Width, 1),
		Opacity:  1,
	}
}

// Shape rasterizes a parametric shape spanned by a start and an end point.
// Draw paints on top of the current surface content; callers wanting
// idempotent previews restore a baseline first (see Surface.RasterizeShape).
type Shape interface {
	Kind() ShapeKind
	Draw(s *Surface, start, end Point, style ShapeStyle)
}

type (
	lineShape      struct{}
	rectangleShape struct{}
	circleShape    struct{}
	triangleShape  struct{}
	starShape      struct{}
	heartShape     struct{}
)

var shapes = map[ShapeKind]Shape{
	ShapeLine:      lineShape{},
	ShapeRectangle: rectangleShape{},
	ShapeCircle:    circleShape{},
	ShapeTriangle:  triangleShape{},
	ShapeStar:      starShape{},
	ShapeHeart:     heartShape{},
}

// ShapeFor returns the strategy rasterizing the given shape kind.
func ShapeFor(kind ShapeKind) (Shape, error) {
	sh, ok := shapes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownShape, kind)
	}
	return sh, nil
}

// RasterizeShape restores the baseline and paints the shape on top of it in
// one step, so repeated previews never accumulate.
func (s *Surface) RasterizeShape(kind ShapeKind, start, end Point, style ShapeStyle, baseline Snapshot) error {
	sh, err := ShapeFor(kind)
	if err != nil {
		return err
	}
	if !baseline.IsZero() {
		if err := s.Restore(baseline); err != nil {
			return err
		}
	}
	sh.Draw(s, start, end, style)
	return nil
}

func (lineShape) Kind() ShapeKind { return ShapeLine }

func (lineShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	s.StrokeSegment(start, end, style.outline())
}

func (rectangleShape) Kind() ShapeKind { return ShapeRectangle }

// Draw paints the axis aligned box whose opposite corners are start and end,
// both corners included.
func (rectangleShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	a, b := start.Pixel(), end.Pixel()
	x0, x1 := utils.Min(a.X, b.X), utils.Max(a.X, b.X)
	y0, y1 := utils.Min(a.Y, b.Y), utils.Max(a.Y, b.Y)

	if style.Fill {
		for y := utils.Max(y0, 0); y <= utils.Min(y1, s.Height()-1); y++ {
			for x := utils.Max(x0, 0); x <= utils.Min(x1, s.Width()-1); x++ {
				s.plot(x, y, style.Color, 1, "")
			}
		}
		return
	}
	s.strokePolyline(RectanglePoints(start, end), true, style.outline())
}

func (circleShape) Kind() ShapeKind { return ShapeCircle }

// Draw paints the circle centered at start passing through end.
func (circleShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	r := start.Dist(end)
	if style.Fill {
		s.fillPolygon(circlePoints(start, r), style.Color, 1, "")
		return
	}
	s.strokePolyline(circlePoints(start, r), true, style.outline())
}

func (triangleShape) Kind() ShapeKind { return ShapeTriangle }

func (triangleShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	pts := TrianglePoints(start, end)
	if style.Fill {
		s.fillPolygon(pts[:], style.Color, 1, "")
		return
	}
	s.strokePolyline(pts[:], true, style.outline())
}

func (starShape) Kind() ShapeKind { return ShapeStar }

func (starShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	pts := StarPoints(start, end)
	if style.Fill {
		s.fillPolygon(pts[:], style.Color, 1, "")
		return
	}
	style.Width = starLineWidth
	s.strokePolyline(pts[:], true, style.outline())
}

func (heartShape) Kind() ShapeKind { return ShapeHeart }

func (heartShape) Draw(s *Surface, start, end Point, style ShapeStyle) {
	pts := HeartPoints(start, end)
	if style.Fill {
		s.fillPolygon(pts, style.Color, 1, "")
		return
	}
	s.strokePolyline(pts, true, style.outline())
}

// RectanglePoints returns the four corners of the box spanned by start and end.
func RectanglePoints(start, end Point) []Point {
	return []Point{start, {X: end.X, Y: start.Y}, end, {X: start.X, Y: end.Y}}
}

// TrianglePoints returns the vertices of the isosceles triangle anchored at
// start: start, end and end mirrored about the vertical through start.
func TrianglePoints(start, end Point) [3]Point {
	return [3]Point{
		start,
		end,
		{X: start.X - (end.X - start.X), Y: end.Y},
	}
}

// StarPoints returns the ten vertices of the five pointed star centered at
// start. The first outer vertex points towards end; the outer radius is half
// the start-end distance and the inner radius half of that.
func StarPoints(start, end Point) [10]Point {
	dx, dy := end.X-start.X, end.Y-start.Y
	angle := math.Atan2(dy, dx)
	radius := math.Hypot(dx, dy) / 2

	var pts [10]Point
	for i := 0; i < 5; i++ {
		outer := angle + float64(i)*math.Pi*0.4
		inner := angle + (float64(i)+0.5)*math.Pi*0.4
		pts[2*i] = Point{
			X: start.X + math.Cos(outer)*radius,
			Y: start.Y + math.Sin(outer)*radius,
		}
		pts[2*i+1] = Point{
			X: start.X + math.Cos(inner)*radius*0.5,
			Y: start.Y + math.Sin(inner)*radius*0.5,
		}
	}
	return pts
}

// HeartPoints returns the flattened outline of the heart whose bounding box
// is |dx| wide and |dy| tall, centered horizontally on start. The two lobes
// meet at the dip, 0.3 of the height below start, and at the bottom point.
func HeartPoints(start, end Point) []Point {
	x, y := start.X, start.Y
	w := math.Abs(end.X - start.X)
	h := math.Abs(end.Y - start.Y)
	top := h * 0.3
	mid := y + (h+top)/2

	dip := Point{X: x, Y: y + top}
	left := Point{X: x - w/2, Y: y + top}
	right := Point{X: x + w/2, Y: y + top}
	bottom := Point{X: x, Y: y + h}

	pts := make([]Point, 0, 4*curveSteps+1)
	pts = append(pts, dip)
	pts = cubicTo(pts, dip, Point{X: x, Y: y}, Point{X: x - w/2, Y: y}, left)
	pts = cubicTo(pts, left, Point{X: x - w/2, Y: mid}, Point{X: x, Y: mid}, bottom)
	pts = cubicTo(pts, bottom, Point{X: x, Y: mid}, Point{X: x + w/2, Y: mid}, right)
	pts = cubicTo(pts, right, Point{X: x + w/2, Y: y}, Point{X: x, Y: y}, dip)

	// The last point closes back onto the dip.
	return pts[:len(pts)-1]
}
