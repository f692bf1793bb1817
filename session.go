package easel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/esimov/easel/imop"
	"github.com/esimov/easel/utils"
)

// Session owns all the mutable state of a painting: the surface, the
// history, the palette and the current tool selection. Pointer events drive
// it through PointerDown, PointerMove and PointerUp; every completed action
// is committed to the history as a single entry.
//
// A Session is not safe for concurrent use.
type Session struct {
	surface    *Surface
	history    *History
	palette    *Palette
	blend      *imop.Blend
	rnd        Jitter
	background color.NRGBA

	tool   Tool
	shape  Shape
	stroke StrokeConfig
	fill   bool

	active   bool
	anchor   Point
	last     Point
	baseline Snapshot

	subs    []subscriber
	nextSub int
}

// NewSession creates a session with a blank canvas and a single-entry history.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	bg, _ := cfg.background()
	surface, err := NewSurface(cfg.Width, cfg.Height, bg)
	if err != nil {
		return nil, err
	}
	palette, err := NewPalette(cfg.Palette...)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		surface:    surface,
		history:    NewHistory(cfg.History),
		palette:    palette,
		blend:      imop.NewBlend(),
		rnd:        rand.New(rand.NewSource(seed)),
		background: bg,
		stroke: StrokeConfig{
			Diameter: cfg.Size,
			Opacity:  *cfg.Opacity,
		},
		fill: *cfg.Fill,
	}
	s.history.Reset(surface.Snapshot())

	if err := s.Select(cfg.Tool); err != nil {
		return nil, err
	}
	if err := s.SetColor(cfg.Color); err != nil {
		return nil, err
	}
	if err := s.SetBlendMode(cfg.Blend); err != nil {
		return nil, err
	}
	return s, nil
}

// Surface returns the canvas. Resize, Rescale and Load replace it, so
// callers should not keep the returned value across those calls.
func (s *Session) Surface() *Surface { return s.surface }

// History returns the undo/redo stack of the session.
func (s *Session) History() *History { return s.history }

// Palette returns the color swatches of the session.
func (s *Session) Palette() *Palette { return s.palette }

// Active reports whether a pointer action is in progress.
func (s *Session) Active() bool { return s.active }

// SetJitter replaces the randomness source used by spray and oil brush.
func (s *Session) SetJitter(rnd Jitter) { s.rnd = rnd }

// Tool returns the selected tool; ok is false when a shape is selected.
func (s *Session) Tool() (kind ToolKind, ok bool) {
	if s.tool == nil {
		return 0, false
	}
	return s.tool.Kind(), true
}

// Shape returns the selected shape; ok is false when a tool is selected.
func (s *Session) Shape() (kind ShapeKind, ok bool) {
	if s.shape == nil {
		return 0, false
	}
	return s.shape.Kind(), true
}

// Color returns the current paint color.
func (s *Session) Color() color.NRGBA { return s.stroke.Color }

// Size returns the current stroke diameter.
func (s *Session) Size() float64 { return s.stroke.Diameter }

// Opacity returns the current paint opacity.
func (s *Session) Opacity() float64 { return s.stroke.Opacity }

// Fill reports whether shapes are filled.
func (s *Session) Fill() bool { return s.fill }

// SelectTool activates a freehand tool, deselecting any shape.
func (s *Session) SelectTool(kind ToolKind) error {
	t, err := ToolFor(kind)
	if err != nil {
		return err
	}
	s.abort()
	s.tool, s.shape = t, nil
	return nil
}

// SelectShape activates a shape, deselecting any tool.
func (s *Session) SelectShape(kind ShapeKind) error {
	sh, err := ShapeFor(kind)
	if err != nil {
		return err
	}
	s.abort()
	s.tool, s.shape = nil, sh
	return nil
}

// Select activates the tool or shape with the given name.
func (s *Session) Select(name string) error {
	if kind, err := ParseTool(name); err == nil {
		return s.SelectTool(kind)
	}
	kind, err := ParseShape(name)
	if err != nil {
		return fmt.Errorf("%w or shape: %q", ErrUnknownTool, name)
	}
	return s.SelectShape(kind)
}

// SetColor sets the paint color from its hex representation.
func (s *Session) SetColor(hex string) error {
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		return err
	}
	s.stroke.Color = c
	return nil
}

// SelectSwatch selects a palette entry and makes it the paint color.
func (s *Session) SelectSwatch(i int) error {
	c, err := s.palette.Select(i)
	if err != nil {
		return err
	}
	s.stroke.Color = c
	return nil
}

// SetSize sets the stroke diameter, which is also the shape outline width.
func (s *Session) SetSize(d float64) error {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("brush size must be a positive number, got %v", d)
	}
	s.stroke.Diameter = d
	return nil
}

// SetOpacity sets the paint opacity within [0, 1].
func (s *Session) SetOpacity(o float64) error {
	if o < 0 || o > 1 || math.IsNaN(o) {
		return fmt.Errorf("opacity must be within [0, 1], got %v", o)
	}
	s.stroke.Opacity = o
	return nil
}

// SetFill toggles between filled and outlined shapes.
func (s *Session) SetFill(fill bool) { s.fill = fill }

// SetBlendMode selects the blend mode used by every subsequent draw.
func (s *Session) SetBlendMode(mode string) error {
	if err := s.blend.Set(mode); err != nil {
		return err
	}
	if s.blend.Get() == imop.Normal {
		s.surface.SetBlend(nil)
	} else {
		s.surface.SetBlend(s.blend)
	}
	return nil
}

// BlendMode returns the name of the active blend mode.
func (s *Session) BlendMode() string {
	if s.blend.Get() == imop.Normal {
		return "normal"
	}
	return s.blend.Get()
}

// ToolInfo describes the current selection, e.g. "Tool: Brush | Size: 5".
func (s *Session) ToolInfo() string {
	if s.shape != nil {
		mode := "outline"
		if s.fill {
			mode = "fill"
		}
		return fmt.Sprintf("Shape: %s (%s) | Size: %g", s.shape.Kind().Label(), mode, s.stroke.Diameter)
	}
	return fmt.Sprintf("Tool: %s | Size: %g", s.tool.Kind().Label(), s.stroke.Diameter)
}

// PointerDown starts a new action at p. A second pointer-down while an
// action is in progress is ignored.
func (s *Session) PointerDown(p Point) {
	if s.active {
		return
	}
	s.active = true
	s.anchor, s.last = p, p
	if cur, ok := s.history.Current(); ok {
		s.baseline = cur
	} else {
		s.baseline = s.surface.Snapshot()
	}
	if s.tool != nil {
		s.tool.Draw(s.surface, p, p, s.stroke, s.rnd)
	}
}

// PointerMove continues the active action. Tools paint a segment from the
// previous pointer position; shapes redraw their preview from the baseline.
// Without an active action it does nothing.
func (s *Session) PointerMove(p Point) {
	if !s.active {
		return
	}
	s.drawTo(p)
}

// PointerUp finishes the active action and commits it to the history.
// Actions that left the canvas untouched are not recorded.
func (s *Session) PointerUp(p Point) {
	if !s.active {
		return
	}
	if p != s.last || s.shape != nil {
		s.drawTo(p)
	}
	baseline := s.baseline
	s.active = false
	s.baseline = Snapshot{}

	if bytes.Equal(s.surface.Pix(), baseline.pix) {
		return
	}
	s.commit(EventCommit)
}

// Cancel aborts the active action and restores the canvas to its state
// before the action started.
func (s *Session) Cancel() {
	s.abort()
}

func (s *Session) drawTo(p Point) {
	if s.tool != nil {
		s.tool.Draw(s.surface, s.last, p, s.stroke, s.rnd)
	} else {
		style := ShapeStyle{
			Fill:  s.fill,
			Color: s.stroke.Color,
			Width: s.stroke.Diameter,
		}
		// The shape was validated on selection and the baseline always
		// matches the surface, so this cannot fail.
		_ = s.surface.RasterizeShape(s.shape.Kind(), s.anchor, p, style, s.baseline)
	}
	s.last = p
}

func (s *Session) abort() {
	if !s.active {
		return
	}
	_ = s.surface.Restore(s.baseline)
	s.active = false
	s.baseline = Snapshot{}
}

// FloodFill fills the region around p with the current color, as a single
// committed action.
func (s *Session) FloodFill(p Point) error {
	s.abort()
	fill := s.stroke.Color
	fill.A = 0xff
	if err := s.surface.FloodFill(p.Pixel(), fill); err != nil {
		return &UserError{Op: "fill", Err: err}
	}
	if cur, ok := s.history.Current(); ok && bytes.Equal(cur.pix, s.surface.Pix()) {
		return nil
	}
	s.commit(EventCommit)
	return nil
}

// Undo restores the previously committed state. An action in progress is
// aborted first. At the history floor it fails with ErrNoHistory.
func (s *Session) Undo() error {
	s.abort()
	snap, err := s.history.Undo()
	if err != nil {
		return &UserError{Op: "undo", Err: err}
	}
	if err := s.surface.Restore(snap); err != nil {
		return err
	}
	s.publish(EventUndo)
	return nil
}

// Redo reapplies the most recently undone state. It fails with ErrNoFuture
// when there is nothing to redo.
func (s *Session) Redo() error {
	s.abort()
	snap, err := s.history.Redo()
	if err != nil {
		return &UserError{Op: "redo", Err: err}
	}
	if err := s.surface.Restore(snap); err != nil {
		return err
	}
	s.publish(EventRedo)
	return nil
}

// Clear paints the whole canvas with the background and resets the history.
func (s *Session) Clear() {
	s.abort()
	s.surface.Fill(s.background)
	s.history.Reset(s.surface.Snapshot())
	s.publish(EventClear)
}

// Resize replaces the canvas with a blank one of the given dimensions and
// resets the history to it.
func (s *Session) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return &UserError{Op: "resize", Err: fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)}
	}
	surface, err := NewSurface(w, h, s.background)
	if err != nil {
		return err
	}
	s.replace(surface, EventResize)
	return nil
}

// Rescale resamples the canvas content to the given dimensions and resets
// the history to the rescaled image.
func (s *Session) Rescale(w, h int) error {
	if w <= 0 || h <= 0 {
		return &UserError{Op: "rescale", Err: fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)}
	}
	s.abort()
	s.replace(newSurface(imaging.Resize(s.surface.Image(), w, h, imaging.Lanczos)), EventResize)
	return nil
}

// Load decodes an image and installs it as the new canvas and history baseline.
func (s *Session) Load(r io.Reader) error {
	img, err := imaging.Decode(r)
	if err != nil {
		return fmt.Errorf("unable to decode the source image: %w", err)
	}
	return s.LoadImage(img)
}

// LoadImage installs a copy of img as the new canvas and history baseline.
func (s *Session) LoadImage(img image.Image) error {
	surface, err := NewSurfaceFromImage(img)
	if err != nil {
		return err
	}
	s.replace(surface, EventLoad)
	return nil
}

func (s *Session) replace(surface *Surface, kind EventKind) {
	s.abort()
	if s.blend.Get() != imop.Normal {
		surface.SetBlend(s.blend)
	}
	s.surface = surface
	s.history.Reset(surface.Snapshot())
	s.publish(kind)
}

func (s *Session) commit(kind EventKind) {
	s.history.Push(s.surface.Snapshot())
	s.publish(kind)
}

// Export encodes the canvas in the given format (png, jpg, bmp, gif, tiff or pdf).
func (s *Session) Export(w io.Writer, format string) error {
	return Encode(w, s.surface.Image(), format)
}

// Save writes the canvas to path, picking the format from its extension.
func (s *Session) Save(path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(filepath.Clean(path))
		}
	}()
	return s.Export(f, format)
}
