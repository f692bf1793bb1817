package easel

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allShapes = []ShapeKind{ShapeLine, ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeStar, ShapeHeart}

func TestShape_Parse(t *testing.T) {
	assert := assert.New(t)

	for _, kind := range allShapes {
		got, err := ParseShape(kind.String())
		assert.NoError(err)
		assert.Equal(kind, got)

		sh, err := ShapeFor(kind)
		assert.NoError(err)
		assert.Equal(kind, sh.Kind())
	}
	kind, err := ParseShape("Rect")
	assert.NoError(err)
	assert.Equal(ShapeRectangle, kind)
	assert.Equal("Heart", ShapeHeart.Label())

	_, err = ParseShape("hexagon")
	assert.ErrorIs(err, ErrUnknownShape)
	_, err = ShapeFor(ShapeKind(-1))
	assert.ErrorIs(err, ErrUnknownShape)
}

func TestShape_FilledRectangleIsExact(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 64, 64)

	err := s.RasterizeShape(ShapeRectangle, Pt(10, 10), Pt(50, 40), ShapeStyle{Fill: true, Color: red}, Snapshot{})
	assert.NoError(err)

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c, _ := s.At(x, y)
			if x >= 10 && x <= 50 && y >= 10 && y <= 40 {
				assert.Equal(red, c, "(%d,%d) inside the box", x, y)
			} else {
				assert.Equal(White, c, "(%d,%d) outside the box", x, y)
			}
		}
	}
}

func TestShape_RectangleOutline(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 32, 32)

	// The corners are given in reverse order on purpose.
	assert.NoError(s.RasterizeShape(ShapeRectangle, Pt(20, 20), Pt(10, 10), ShapeStyle{Color: red, Width: 1}, Snapshot{}))

	assert.Equal(40, countColor(s, red))
	c, _ := s.At(10, 10)
	assert.Equal(red, c)
	c, _ = s.At(15, 15)
	assert.Equal(White, c)
}

func TestShape_Line(t *testing.T) {
	s := newTestSurface(t, 10, 10)

	assert.NoError(t, s.RasterizeShape(ShapeLine, Pt(0, 0), Pt(9, 0), ShapeStyle{Color: blue, Width: 1}, Snapshot{}))
	assert.Equal(t, 10, countColor(s, blue))
}

func TestShape_FilledCircle(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 40, 40)

	assert.NoError(s.RasterizeShape(ShapeCircle, Pt(20, 20), Pt(30, 20), ShapeStyle{Fill: true, Color: red}, Snapshot{}))

	assert.InDelta(math.Pi*100, float64(countColor(s, red)), 40)
	for _, p := range [][2]int{{20, 20}, {20, 12}, {27, 20}, {14, 25}} {
		c, _ := s.At(p[0], p[1])
		assert.Equal(red, c, "pixel %v", p)
	}
	for _, p := range [][2]int{{20, 32}, {5, 5}, {31, 31}} {
		c, _ := s.At(p[0], p[1])
		assert.Equal(White, c, "pixel %v", p)
	}
}

func TestShape_ClippedFill(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 20, 20)

	assert.NotPanics(func() {
		_ = s.RasterizeShape(ShapeCircle, Pt(0, 0), Pt(10, 0), ShapeStyle{Fill: true, Color: red}, Snapshot{})
		_ = s.RasterizeShape(ShapeStar, Pt(-50, -50), Pt(-10, -10), ShapeStyle{Fill: true, Color: red}, Snapshot{})
	})
	c, _ := s.At(2, 2)
	assert.Equal(red, c)
	c, _ = s.At(15, 15)
	assert.Equal(White, c)
}

func TestShape_FilledTriangleStarHeart(t *testing.T) {
	testCases := []struct {
		kind       ShapeKind
		start, end Point
		inside     [][2]int
		outside    [][2]int
	}{
		{ShapeTriangle, Pt(30, 10), Pt(40, 30), [][2]int{{30, 23}, {30, 28}}, [][2]int{{30, 5}, {45, 30}, {30, 35}}},
		{ShapeStar, Pt(30, 30), Pt(50, 30), [][2]int{{30, 30}, {31, 31}}, [][2]int{{30, 45}, {45, 45}}},
		{ShapeHeart, Pt(30, 10), Pt(50, 50), [][2]int{{30, 35}, {30, 40}}, [][2]int{{30, 5}, {10, 35}, {30, 55}}},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			s := newTestSurface(t, 64, 64)
			assert.NoError(t, s.RasterizeShape(tc.kind, tc.start, tc.end, ShapeStyle{Fill: true, Color: green}, Snapshot{}))

			for _, p := range tc.inside {
				c, _ := s.At(p[0], p[1])
				assert.Equal(t, green, c, "pixel %v should be filled", p)
			}
			for _, p := range tc.outside {
				c, _ := s.At(p[0], p[1])
				assert.Equal(t, White, c, "pixel %v should be untouched", p)
			}
		})
	}
}

func TestShape_Deterministic(t *testing.T) {
	for _, kind := range allShapes {
		for _, fill := range []bool{false, true} {
			style := ShapeStyle{Fill: fill, Color: red, Width: 3}

			a := newTestSurface(t, 80, 80)
			b := newTestSurface(t, 80, 80)
			assert.NoError(t, a.RasterizeShape(kind, Pt(40, 30), Pt(62, 55), style, Snapshot{}))
			assert.NoError(t, b.RasterizeShape(kind, Pt(40, 30), Pt(62, 55), style, Snapshot{}))

			assert.True(t, bytes.Equal(a.Pix(), b.Pix()), "%v fill=%v", kind, fill)
			assert.Less(t, countColor(a, White), 80*80, "%v fill=%v paints something", kind, fill)
		}
	}
}

func TestShape_PreviewRestoresBaseline(t *testing.T) {
	assert := assert.New(t)

	s := newTestSurface(t, 60, 60)
	baseline := s.Snapshot()
	style := ShapeStyle{Color: red, Width: 2}

	for _, end := range []Point{Pt(55, 55), Pt(10, 50), Pt(40, 20)} {
		assert.NoError(s.RasterizeShape(ShapeCircle, Pt(30, 30), end, style, baseline))
	}

	want := newTestSurface(t, 60, 60)
	assert.NoError(want.RasterizeShape(ShapeCircle, Pt(30, 30), Pt(40, 20), style, Snapshot{}))
	assert.Equal(want.Pix(), s.Pix())
}

func TestShape_StarOutlineWidthIsFixed(t *testing.T) {
	a := newTestSurface(t, 60, 60)
	b := newTestSurface(t, 60, 60)

	assert.NoError(t, a.RasterizeShape(ShapeStar, Pt(30, 30), Pt(55, 30), ShapeStyle{Color: red, Width: 1}, Snapshot{}))
	assert.NoError(t, b.RasterizeShape(ShapeStar, Pt(30, 30), Pt(55, 30), ShapeStyle{Color: red, Width: 12}, Snapshot{}))
	assert.Equal(t, a.Pix(), b.Pix())
}

func TestShape_Geometry(t *testing.T) {
	assert := assert.New(t)

	tri := TrianglePoints(Pt(10, 10), Pt(20, 30))
	assert.Equal([3]Point{Pt(10, 10), Pt(20, 30), Pt(0, 30)}, tri)

	rect := RectanglePoints(Pt(1, 2), Pt(5, 7))
	assert.Equal([]Point{Pt(1, 2), Pt(5, 2), Pt(5, 7), Pt(1, 7)}, rect)

	star := StarPoints(Pt(0, 0), Pt(10, 0))
	assert.InDelta(5, star[0].X, 1e-9)
	assert.InDelta(0, star[0].Y, 1e-9)
	for i, p := range star {
		r := 5.0
		if i%2 == 1 {
			r = 2.5
		}
		assert.InDelta(r, math.Hypot(p.X, p.Y), 1e-9, "vertex %d", i)
	}
	assert.InDelta(0.2*math.Pi, math.Atan2(star[1].Y, star[1].X), 1e-9)

	heart := HeartPoints(Pt(50, 10), Pt(70, 50))
	assert.Len(heart, 4*curveSteps)
	assert.InDelta(50, heart[0].X, 1e-9)
	assert.InDelta(22, heart[0].Y, 1e-9)
	assert.InDelta(40, heart[curveSteps].X, 1e-9)
	assert.InDelta(22, heart[curveSteps].Y, 1e-9)
	assert.InDelta(50, heart[2*curveSteps].X, 1e-9)
	assert.InDelta(50, heart[2*curveSteps].Y, 1e-9)
	assert.InDelta(60, heart[3*curveSteps].X, 1e-9)
}
