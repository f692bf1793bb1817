package easel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var black = color.NRGBA{A: 0xff}

func TestFloodFill_BlankSurface(t *testing.T) {
	s, err := NewSurface(16, 9, Transparent)
	assert.NoError(t, err)

	assert.NoError(t, s.FloodFill(image.Pt(3, 3), color.NRGBA{R: 0xff, A: 0x10}))
	assert.Equal(t, 16*9, countColor(s, red))
}

func TestFloodFill_SameColorIsNoop(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 12, 12)
	s.StrokeSegment(Pt(0, 6), Pt(11, 6), StrokeConfig{Color: blue, Diameter: 1, Opacity: 1})
	before := append([]byte(nil), s.Pix()...)

	assert.NoError(s.FloodFill(image.Pt(2, 2), White))
	assert.Equal(before, s.Pix())
}

func TestFloodFill_NormalizesAlpha(t *testing.T) {
	s, _ := NewSurface(5, 5, color.NRGBA{R: 0xff, A: 0x40})

	assert.NoError(t, s.FloodFill(image.Pt(0, 0), red))
	assert.Equal(t, 25, countColor(s, red))
}

func TestFloodFill_StopsAtBoundary(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 10, 10)
	for y := 0; y < 10; y++ {
		assert.NoError(s.Set(5, y, black))
	}

	assert.NoError(s.FloodFill(image.Pt(1, 1), red))
	assert.Equal(50, countColor(s, red))
	assert.Equal(40, countColor(s, White))
	assert.Equal(10, countColor(s, black))
}

func TestFloodFill_EnclosedRegion(t *testing.T) {
	assert := assert.New(t)
	s := newTestSurface(t, 10, 10)
	assert.NoError(s.RasterizeShape(ShapeRectangle, Pt(2, 2), Pt(7, 7), ShapeStyle{Color: black, Width: 1}, Snapshot{}))

	assert.NoError(s.FloodFill(image.Pt(4, 4), green))
	assert.Equal(16, countColor(s, green))
	assert.Equal(20, countColor(s, black))
	assert.Equal(64, countColor(s, White))
}

func TestFloodFill_FourConnected(t *testing.T) {
	s := newTestSurface(t, 3, 3)
	_ = s.Set(1, 0, black)
	_ = s.Set(0, 1, black)

	assert.NoError(t, s.FloodFill(image.Pt(0, 0), red))
	assert.Equal(t, 1, countColor(s, red))
}

func TestFloodFill_IgnoresAlphaWhenMatching(t *testing.T) {
	s := newTestSurface(t, 4, 1)
	_ = s.Set(2, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x20})

	assert.NoError(t, s.FloodFill(image.Pt(0, 0), blue))
	assert.Equal(t, 4, countColor(s, blue))
}

func TestFloodFill_OutOfBounds(t *testing.T) {
	s := newTestSurface(t, 4, 4)

	for _, p := range []image.Point{{-1, 0}, {4, 0}, {0, 4}} {
		assert.ErrorIs(t, s.FloodFill(p, red), ErrOutOfBounds)
	}
	assert.Equal(t, 16, countColor(s, White))
}

func TestFloodFill_MatchesReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))

	for i := 0; i < 25; i++ {
		s := newTestSurface(t, 32, 24)
		for n := 0; n < 300; n++ {
			_ = s.Set(rnd.Intn(32), rnd.Intn(24), black)
		}
		seed := image.Pt(rnd.Intn(32), rnd.Intn(24))
		want := referenceFill(s, seed, red)

		assert.NoError(t, s.FloodFill(seed, red))
		assert.Equal(t, want, s.Pix(), "iteration %d, seed %v", i, seed)
	}
}

// referenceFill returns the buffer produced by a plain 4-connected
// breadth-first fill of a copy of s.
func referenceFill(s *Surface, seed image.Point, fill color.NRGBA) []byte {
	img := image.NewNRGBA(s.Bounds())
	copy(img.Pix, s.Pix())

	target := img.NRGBAAt(seed.X, seed.Y)
	same := func(c color.NRGBA) bool {
		return c.R == target.R && c.G == target.G && c.B == target.B
	}
	seen := map[image.Point]bool{seed: true}
	queue := []image.Point{seed}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		img.SetNRGBA(p.X, p.Y, fill)
		for _, d := range []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			q := p.Add(d)
			if !q.In(img.Rect) || seen[q] || !same(img.NRGBAAt(q.X, q.Y)) {
				continue
			}
			seen[q] = true
			queue = append(queue, q)
		}
	}
	return img.Pix
}
