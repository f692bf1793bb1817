package imop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/esimov/easel/utils"
)

// Porter-Duff composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Composite holds the currently active composition operator.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite with source-over as the active operator.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operators.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operator.
func (op *Composite) Get() string {
	return op.current
}

// Pixel composes the source color, scaled by the alpha factor, with the
// backdrop color. If blend is not nil, the source is first mixed with the
// backdrop through the blend mode.
func (op *Composite) Pixel(src, dst color.NRGBA, alpha float64, blend *Blend) color.NRGBA {
	alpha = utils.Clamp(alpha, 0, 1)

	rs, gs, bs := float64(src.R)/255, float64(src.G)/255, float64(src.B)/255
	as := float64(src.A) / 255 * alpha
	rb, gb, bb := float64(dst.R)/255, float64(dst.G)/255, float64(dst.B)/255
	ab := float64(dst.A) / 255

	if blend != nil && blend.Get() != "" {
		rs = (1-ab)*rs + ab*blend.channel(rs, rb)
		gs = (1-ab)*gs + ab*blend.channel(gs, gb)
		bs = (1-ab)*bs + ab*blend.channel(bs, bb)
	}

	// Fa and Fb are the Porter-Duff fractions of source and backdrop.
	var fa, fb float64
	switch op.current {
	case Clear:
		fa, fb = 0, 0
	case Copy:
		fa, fb = 1, 0
	case Dst:
		fa, fb = 0, 1
	case SrcOver:
		fa, fb = 1, 1-as
	case DstOver:
		fa, fb = 1-ab, 1
	case SrcIn:
		fa, fb = ab, 0
	case DstIn:
		fa, fb = 0, as
	case SrcOut:
		fa, fb = 1-ab, 0
	case DstOut:
		fa, fb = 0, 1-as
	case SrcAtop:
		fa, fb = ab, 1-as
	case DstAtop:
		fa, fb = 1-ab, as
	case Xor:
		fa, fb = 1-ab, 1-as
	}

	an := as*fa + ab*fb
	if an <= 0 {
		return color.NRGBA{}
	}
	rn := (as*fa*rs + ab*fb*rb) / an
	gn := (as*fa*gs + ab*fb*gb) / an
	bn := (as*fa*bs + ab*fb*bb) / an

	return color.NRGBA{
		R: toByte(rn),
		G: toByte(gn),
		B: toByte(bn),
		A: toByte(an),
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
