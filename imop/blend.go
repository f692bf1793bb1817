// Package imop implements the Porter-Duff composition operators and the
// separable blend modes used to mix paint with the canvas backdrop.
// The image/draw package only provides source-over and source; every tool
// and shape in easel goes through this package instead, one pixel at a time.
package imop

import (
	"fmt"

	"github.com/esimov/easel/utils"
)

// Supported blend modes. The empty mode is the normal (no-op) blend.
const (
	Normal   = ""
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if opType == "normal" {
		opType = Normal
	}
	bModes := []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

	if !utils.Contains(bModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// channel applies the blend function to one normalized channel pair,
// cs being the source and cb the backdrop value.
func (o *Blend) channel(cs, cb float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(cs, cb)
	case Lighten:
		return utils.Max(cs, cb)
	case Multiply:
		return cs * cb
	case Screen:
		return 1 - (1-cs)*(1-cb)
	case Overlay:
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cs)*(1-cb)
	}
	return cs
}
