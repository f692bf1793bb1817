package easel

import (
	"fmt"
	"image/color"

	"github.com/esimov/easel/utils"
)

// DefaultPalette lists the swatches available on a fresh session.
var DefaultPalette = []string{
	"#000000",
	"#ffffff",
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#ffff00",
	"#ff00ff",
	"#00ffff",
}

// Palette is an ordered set of unique colors with one selected swatch.
type Palette struct {
	colors   []color.NRGBA
	selected int
}

// NewPalette builds a palette from hex colors. Duplicates are dropped.
func NewPalette(hexes ...string) (*Palette, error) {
	p := &Palette{}
	for _, hex := range hexes {
		if _, err := p.Add(hex); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Len returns the number of swatches.
func (p *Palette) Len() int { return len(p.colors) }

// Colors returns a copy of the swatches.
func (p *Palette) Colors() []color.NRGBA {
	return append([]color.NRGBA(nil), p.colors...)
}

// Selected returns the index of the selected swatch, or -1 when empty.
func (p *Palette) Selected() int {
	if len(p.colors) == 0 {
		return -1
	}
	return p.selected
}

// Add appends a swatch and returns its index. Adding an existing color
// returns the index of the existing swatch.
func (p *Palette) Add(hex string) (int, error) {
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		return -1, err
	}
	for i, sw := range p.colors {
		if sw == c {
			return i, nil
		}
	}
	p.colors = append(p.colors, c)
	return len(p.colors) - 1, nil
}

// Remove deletes the swatch at index i.
func (p *Palette) Remove(i int) error {
	if i < 0 || i >= len(p.colors) {
		return fmt.Errorf("palette index %d out of range [0,%d)", i, len(p.colors))
	}
	p.colors = append(p.colors[:i], p.colors[i+1:]...)
	switch {
	case p.selected > i:
		p.selected--
	case p.selected >= len(p.colors):
		p.selected = utils.Max(len(p.colors)-1, 0)
	}
	return nil
}

// Select marks the swatch at index i as selected and returns its color.
func (p *Palette) Select(i int) (color.NRGBA, error) {
	if i < 0 || i >= len(p.colors) {
		return color.NRGBA{}, fmt.Errorf("palette index %d out of range [0,%d)", i, len(p.colors))
	}
	p.selected = i
	return p.colors[i], nil
}
