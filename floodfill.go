package easel

import (
	"fmt"
	"image"
	"image/color"
)

// FloodFill repaints the 4-connected region of pixels sharing the seed's RGB
// value with fill. Matching ignores alpha; painted pixels become opaque.
//
// A surface whose pixels are all fully transparent is treated as empty and
// filled entirely without walking it.
func (s *Surface) FloodFill(seed image.Point, fill color.NRGBA) error {
	if !s.inBounds(seed.X, seed.Y) {
		return fmt.Errorf("%w: seed (%d,%d)", ErrOutOfBounds, seed.X, seed.Y)
	}
	fill.A = 0xff

	if s.isTransparent() {
		s.Fill(fill)
		return nil
	}

	var (
		w, h   = s.Width(), s.Height()
		pix    = s.img.Pix
		stride = s.img.Stride
		i      = s.img.PixOffset(seed.X, seed.Y)
		tr     = pix[i]
		tg     = pix[i+1]
		tb     = pix[i+2]
	)
	// visited guarantees termination when the fill RGB equals the target RGB.
	visited := make([]bool, w*h)

	match := func(x, y int) bool {
		if visited[y*w+x] {
			return false
		}
		o := y*stride + x*4
		return pix[o] == tr && pix[o+1] == tg && pix[o+2] == tb
	}
	paint := func(x, y int) {
		visited[y*w+x] = true
		o := y*stride + x*4
		pix[o], pix[o+1], pix[o+2], pix[o+3] = fill.R, fill.G, fill.B, fill.A
	}

	stack := []image.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if !match(x, y) {
			continue
		}
		// Walk up to the top of the run, then paint it downwards.
		for y >= 0 && match(x, y) {
			y--
		}
		y++

		reachLeft, reachRight := false, false
		for y < h && match(x, y) {
			paint(x, y)

			if x > 0 {
				if match(x-1, y) {
					if !reachLeft {
						stack = append(stack, image.Pt(x-1, y))
						reachLeft = true
					}
				} else {
					reachLeft = false
				}
			}
			if x < w-1 {
				if match(x+1, y) {
					if !reachRight {
						stack = append(stack, image.Pt(x+1, y))
						reachRight = true
					}
				} else {
					reachRight = false
				}
			}
			y++
		}
	}
	return nil
}

// isTransparent reports whether every pixel has a zero alpha channel.
func (s *Surface) isTransparent() bool {
	pix := s.img.Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			return false
		}
	}
	return true
}
