// Package gui opens an interactive Gio window on top of an easel session.
package gui

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/disintegration/imaging"
	"github.com/esimov/easel"
	"github.com/esimov/easel/utils"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	maxScreenX = 1366
	maxScreenY = 768

	statusBarHeight = 28
	sizeStep        = 1
)

var (
	defaultBkgColor    = color.NRGBA{R: 0x3c, G: 0x3c, B: 0x3c, A: 0xff}
	defaultStatusColor = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
)

var toolKeys = map[key.Name]easel.ToolKind{
	"B": easel.ToolBrush,
	"E": easel.ToolEraser,
	"S": easel.ToolSpray,
	"M": easel.ToolMarker,
	"O": easel.ToolOilBrush,
}

var shapeKeys = map[key.Name]easel.ShapeKind{
	"L": easel.ShapeLine,
	"R": easel.ShapeRectangle,
	"C": easel.ShapeCircle,
	"T": easel.ShapeTriangle,
	"A": easel.ShapeStar,
	"H": easel.ShapeHeart,
}

// Gui is the basic struct containing all of the information needed for the UI operation.
// Every pointer and keyboard event is forwarded to the session it wraps.
type Gui struct {
	cfg struct {
		window struct {
			w     float32
			h     float32
			title string
		}
		savePath string
	}
	session *easel.Session
	theme   *material.Theme
	canvas  paint.ImageOp
	dirty   bool
	status  string
}

// NewGUI initializes the Gio interface. Ctrl+S saves the canvas to savePath.
func NewGUI(s *easel.Session, savePath string) *Gui {
	g := &Gui{
		session: s,
		dirty:   true,
	}
	g.cfg.savePath = savePath

	g.theme = material.NewTheme()
	g.theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	g.theme.Palette.Fg = defaultStatusColor

	w, h := g.canvasSize()
	g.cfg.window.w, g.cfg.window.h = w, h+statusBarHeight

	return g
}

// canvasSize returns the on-screen size of the canvas, shrunk to fit the
// predefined screen size while keeping its aspect ratio.
func (g *Gui) canvasSize() (float32, float32) {
	b := g.session.Surface().Bounds()
	r := g.scale()
	return float32(b.Dx()) * r, float32(b.Dy()) * r
}

func (g *Gui) scale() float32 {
	b := g.session.Surface().Bounds()
	r := utils.Min(float32(maxScreenX)/float32(b.Dx()), float32(maxScreenY)/float32(b.Dy()))
	return utils.Min(r, 1)
}

// Run is the core method of the Gio GUI application. It blocks until the
// window is closed, either by the user or by the Esc key.
func (g *Gui) Run() error {
	w := new(app.Window)
	g.cfg.window.title = g.session.ToolInfo()
	w.Option(
		app.Title(g.cfg.window.title),
		app.Size(unit.Dp(g.cfg.window.w), unit.Dp(g.cfg.window.h)),
	)

	cancel := g.session.Subscribe(func(easel.Event) {
		g.dirty = true
	})
	defer cancel()

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			g.handleKeys(gtx, w)
			g.handlePointer(gtx)
			g.draw(gtx)
			e.Frame(gtx.Ops)

			if title := g.session.ToolInfo(); title != g.cfg.window.title {
				g.cfg.window.title = title
				w.Option(app.Title(title))
			}
		case app.DestroyEvent:
			return e.Err
		}
	}
}

// handlePointer forwards the pointer events received by the canvas to the session.
// The positions are already expressed in canvas coordinates.
func (g *Gui) handlePointer(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: g,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		p := easel.Pt(float64(e.Position.X), float64(e.Position.Y))

		switch e.Kind {
		case pointer.Press:
			if !e.Buttons.Contain(pointer.ButtonPrimary) {
				continue
			}
			g.status = ""
			g.session.PointerDown(p)
		case pointer.Drag:
			g.session.PointerMove(p)
		case pointer.Release:
			g.session.PointerUp(p)
		case pointer.Cancel:
			g.session.Cancel()
		}
		g.dirty = true
	}
}

// handleKeys dispatches the keyboard shortcuts.
func (g *Gui) handleKeys(gtx C, w *app.Window) {
	filters := []event.Filter{
		key.Filter{Name: "Z", Required: key.ModShortcut, Optional: key.ModShift},
		key.Filter{Name: "Y", Required: key.ModShortcut},
		key.Filter{Name: "S", Required: key.ModShortcut},
		key.Filter{Name: "F"},
		key.Filter{Name: "["},
		key.Filter{Name: "]"},
		key.Filter{Name: key.NameDeleteForward},
		key.Filter{Name: key.NameEscape},
	}
	for name := range toolKeys {
		filters = append(filters, key.Filter{Name: name})
	}
	for name := range shapeKeys {
		filters = append(filters, key.Filter{Name: name})
	}

	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		if err := g.onKey(e, w); err != nil {
			g.status = err.Error()
		}
		g.dirty = true
	}
}

func (g *Gui) onKey(e key.Event, w *app.Window) error {
	s := g.session
	if e.Modifiers.Contain(key.ModShortcut) {
		switch {
		case e.Name == "Z" && e.Modifiers.Contain(key.ModShift), e.Name == "Y":
			return s.Redo()
		case e.Name == "Z":
			return s.Undo()
		case e.Name == "S":
			if err := s.Save(g.cfg.savePath); err != nil {
				return err
			}
			g.status = fmt.Sprintf("Saved as %s", g.cfg.savePath)
		}
		return nil
	}

	if kind, ok := toolKeys[e.Name]; ok {
		return s.SelectTool(kind)
	}
	if kind, ok := shapeKeys[e.Name]; ok {
		return s.SelectShape(kind)
	}
	switch e.Name {
	case "F":
		s.SetFill(!s.Fill())
	case "[":
		return s.SetSize(utils.Max(s.Size()-sizeStep, 1))
	case "]":
		return s.SetSize(s.Size() + sizeStep)
	case key.NameDeleteForward:
		s.Clear()
	case key.NameEscape:
		w.Perform(system.ActionClose)
	}
	return nil
}

// draw paints the canvas and the status bar below it.
func (g *Gui) draw(gtx C) {
	if g.dirty {
		// The image op must not change after it was added, so it gets its own copy.
		g.canvas = paint.NewImageOp(imaging.Clone(g.session.Surface().Image()))
		g.canvas.Filter = paint.FilterNearest
		g.dirty = false
	}
	paint.Fill(gtx.Ops, defaultBkgColor)

	r := g.scale()
	size := g.session.Surface().Bounds().Size()

	tr := op.Affine(f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(r, r))).Push(gtx.Ops)
	area := clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops)
	g.canvas.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	event.Op(gtx.Ops, g)
	area.Pop()
	tr.Pop()

	_, h := g.canvasSize()
	defer op.Offset(image.Pt(0, int(h))).Push(gtx.Ops).Pop()
	g.drawStatus(gtx)
}

// drawStatus shows the last error or notice, or the tool info when there is none.
func (g *Gui) drawStatus(gtx C) D {
	msg := g.status
	if msg == "" {
		msg = fmt.Sprintf("%s | Color: %s | Undo: %d | Redo: %d",
			g.session.ToolInfo(),
			utils.RGBAToHex(g.session.Color()),
			g.session.History().UndoDepth()-1,
			g.session.History().RedoDepth(),
		)
	}
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
		return material.Label(g.theme, unit.Sp(13), msg).Layout(gtx)
	})
}
