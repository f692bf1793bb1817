package easel

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testScript = `
width: 48
height: 32
color: "#ff0000"
seed: 11
steps:
  - tool: brush
  - size: 3
  - stroke: [[4, 4], [20, 4], [20, 20]]
  - shape: rectangle
  - fill: true
  - color: "#00ff00"
  - drag: [[30, 10], [40, 20]]
  - palette-add: "#123456"
  - swatch: 8
  - fill-at: [2, 28]
  - undo: 1
  - redo: 1
`

func TestExec_ParseScript(t *testing.T) {
	assert := assert.New(t)

	sc, err := ParseScript(strings.NewReader(testScript))
	assert.NoError(err)
	assert.Equal(48, sc.Width)
	assert.Equal(32, sc.Height)
	assert.Equal(int64(11), sc.Seed)
	assert.Len(sc.Steps, 12)

	op, err := sc.Steps[2].Op()
	assert.NoError(err)
	assert.Equal("stroke", op)
	op, _ = sc.Steps[9].Op()
	assert.Equal("fill-at", op)

	_, err = ParseScript(strings.NewReader("steps:\n  - tool: brush\n    color: \"#fff\"\n"))
	assert.ErrorIs(err, ErrInvalidStep)
	_, err = ParseScript(strings.NewReader("steps:\n  - {}\n"))
	assert.ErrorIs(err, ErrInvalidStep)
	_, err = ParseScript(strings.NewReader("steps:\n  - paint: now\n"))
	assert.Error(err)

	sc, err = ParseScript(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(sc.Steps)
}

func TestExec_Run(t *testing.T) {
	assert := assert.New(t)

	sc, err := ParseScript(strings.NewReader(testScript))
	assert.NoError(err)
	s, err := sc.NewSession(DefaultConfig())
	assert.NoError(err)
	assert.Equal(48, s.Surface().Width())

	assert.NoError(s.Run(sc))

	c, _ := s.Surface().At(12, 4)
	assert.Equal(red, c)
	c, _ = s.Surface().At(35, 15)
	assert.Equal(green, c)
	swatch := color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	c, _ = s.Surface().At(2, 28)
	assert.Equal(swatch, c)
	c, _ = s.Surface().At(25, 28)
	assert.Equal(swatch, c)

	assert.Equal(4, s.History().UndoDepth())
	assert.Equal(9, s.Palette().Len())
}

func TestExec_PaletteAddExisting(t *testing.T) {
	assert := assert.New(t)
	script := `
steps:
  - palette-add: "#0000ff"
  - swatch: 4
`
	sc, err := ParseScript(strings.NewReader(script))
	assert.NoError(err)
	s, err := NewSession(Config{Width: 8, Height: 8})
	assert.NoError(err)

	assert.NoError(s.Run(sc))
	assert.Equal(len(DefaultPalette), s.Palette().Len())
	assert.Equal(4, s.Palette().Selected())
	assert.Equal(blue, s.Color())

	i, err := s.Palette().Add("#0000FF")
	assert.NoError(err)
	assert.Equal(4, i)
	assert.Equal(len(DefaultPalette), s.Palette().Len())
}

func TestExec_ZeroOpacityOption(t *testing.T) {
	sc, err := ParseScript(strings.NewReader("width: 8\nheight: 8\nopacity: 0\nsteps:\n  - stroke: [[1, 1], [6, 6]]\n"))
	assert.NoError(t, err)
	s, err := sc.NewSession(Config{Opacity: Float(1)})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, s.Opacity())

	assert.NoError(t, s.Run(sc))
	assert.Equal(t, 64, countColor(s.Surface(), White))
}

func TestExec_RunStopsAtFailingStep(t *testing.T) {
	assert := assert.New(t)
	script := `
steps:
  - color: "#0000ff"
  - stroke: [[1, 1], [5, 5]]
  - undo: 3
  - stroke: [[1, 9], [5, 9]]
`
	sc, err := ParseScript(strings.NewReader(script))
	assert.NoError(err)
	s, err := NewSession(Config{Width: 10, Height: 10})
	assert.NoError(err)

	err = s.Run(sc)
	assert.ErrorIs(err, ErrNoHistory)
	assert.Contains(err.Error(), "step 3 (undo)")
	assert.Equal(100, countColor(s.Surface(), White), "the last stroke never ran")
}

func TestExec_InvalidArguments(t *testing.T) {
	testCases := []string{
		"steps:\n  - stroke: []\n",
		"steps:\n  - stroke: [[1, 2, 3]]\n",
		"steps:\n  - drag: [[1, 1]]\n",
		"steps:\n  - fill-at: [1]\n",
		"steps:\n  - resize: [10]\n",
		"steps:\n  - rescale: [0, 10]\n",
		"steps:\n  - resize: [0, 10]\n",
		"steps:\n  - tool: pencil\n",
		"steps:\n  - shape: blob\n",
		"steps:\n  - swatch: 40\n",
		"steps:\n  - palette-remove: 40\n",
		"steps:\n  - blend: dodge\n",
		"steps:\n  - opacity: 2\n",
		"steps:\n  - size: -1\n",
		"steps:\n  - redo: 1\n",
	}
	for _, script := range testCases {
		sc, err := ParseScript(strings.NewReader(script))
		assert.NoError(t, err, script)

		s, _ := NewSession(Config{Width: 8, Height: 8})
		err = s.Run(sc)
		assert.Error(t, err, script)
		assert.Contains(t, err.Error(), "step 1", script)
	}
}

func TestExec_ResizeAndRescale(t *testing.T) {
	assert := assert.New(t)
	script := `
width: 20
height: 20
steps:
  - fill-at: [0, 0]
  - rescale: [10, 5]
  - resize: [12, 6]
  - clear: true
  - opacity: 0.5
  - blend: screen
  - palette-remove: 0
`
	sc, err := ParseScript(strings.NewReader(script))
	assert.NoError(err)
	s, err := sc.NewSession(Config{})
	assert.NoError(err)
	assert.NoError(s.Run(sc))

	assert.Equal(12, s.Surface().Width())
	assert.Equal(6, s.Surface().Height())
	assert.Equal(0.5, s.Opacity())
	assert.Equal("screen", s.BlendMode())
	assert.Equal(len(DefaultPalette)-1, s.Palette().Len())
}

func TestExec_LoadScript(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "paint.yaml")
	assert.NoError(os.WriteFile(path, []byte(testScript), 0644))

	sc, err := LoadScript(path)
	assert.NoError(err)
	assert.Len(sc.Steps, 12)

	_, err = LoadScript(path + ".missing")
	assert.ErrorIs(err, os.ErrNotExist)
}
