package easel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/esimov/easel/imop"
)

var (
	// White is the default canvas background.
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// Transparent is the fully transparent color.
	Transparent = color.NRGBA{}
)

// Surface is an addressable W×H buffer of non-premultiplied RGBA pixels,
// stored row-major with the origin in the top-left corner.
// All stroke, shape and fill primitives operate on it.
type Surface struct {
	img   *image.NRGBA
	comp  map[string]*imop.Composite
	blend *imop.Blend
}

// NewSurface allocates a w×h surface filled with the background color.
func NewSurface(w, h int, bg color.NRGBA) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return newSurface(imaging.New(w, h, bg)), nil
}

// NewSurfaceFromImage creates a surface holding a copy of img.
func NewSurfaceFromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}
	return newSurface(imaging.Clone(img)), nil
}

func newSurface(img *image.NRGBA) *Surface {
	return &Surface{
		img:  img,
		comp: make(map[string]*imop.Composite),
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds returns the surface rectangle, always anchored at (0, 0).
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Image returns the backing image. The returned value aliases the surface
// buffer; callers that keep it across mutations should clone it.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Pix returns the raw RGBA buffer (len == W*H*4).
func (s *Surface) Pix() []byte { return s.img.Pix }

// SetBlend sets the blend mode applied to every painted pixel.
// A nil blend disables blending.
func (s *Surface) SetBlend(b *imop.Blend) {
	s.blend = b
}

// At returns the color of the pixel at (x, y).
func (s *Surface) At(x, y int) (color.NRGBA, error) {
	if !s.inBounds(x, y) {
		return color.NRGBA{}, fmt.Errorf("%w: (%d,%d) not in %v", ErrOutOfBounds, x, y, s.img.Rect)
	}
	return s.img.NRGBAAt(x, y), nil
}

// Set replaces the pixel at (x, y) with c.
func (s *Surface) Set(x, y int, c color.NRGBA) error {
	if !s.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) not in %v", ErrOutOfBounds, x, y, s.img.Rect)
	}
	s.img.SetNRGBA(x, y, c)
	return nil
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.NRGBA) {
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Snapshot returns an immutable copy of the current pixel buffer.
func (s *Surface) Snapshot() Snapshot {
	return newSnapshot(s.Width(), s.Height(), s.img.Pix)
}

// Restore overwrites the pixel buffer with the snapshot content.
// The snapshot must have the same dimensions as the surface.
func (s *Surface) Restore(snap Snapshot) error {
	if snap.Width != s.Width() || snap.Height != s.Height() {
		return fmt.Errorf("snapshot %dx%d does not match surface %dx%d",
			snap.Width, snap.Height, s.Width(), s.Height())
	}
	copy(s.img.Pix, snap.pix)
	return nil
}

func (s *Surface) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width() && y < s.Height()
}

// plot composites c with the given alpha factor onto the pixel at (x, y).
// Pixels outside the surface are clipped.
func (s *Surface) plot(x, y int, c color.NRGBA, alpha float64, op string) {
	if !s.inBounds(x, y) || alpha <= 0 {
		return
	}
	i := s.img.PixOffset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	dst := color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	blend := s.blend
	if op == imop.Copy {
		// Copy replaces the pixel outright and ignores the blend mode.
		blend = nil
	}
	res := s.compositor(op).Pixel(c, dst, alpha, blend)
	p[0], p[1], p[2], p[3] = res.R, res.G, res.B, res.A
}

func (s *Surface) compositor(op string) *imop.Composite {
	if op == "" {
		op = imop.SrcOver
	}
	if c, ok := s.comp[op]; ok {
		return c
	}
	c := imop.InitOp()
	if err := c.Set(op); err != nil {
		// Operators come from package constants only.
		panic(err)
	}
	s.comp[op] = c
	return c
}
