package easel

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a replayable painting session: the canvas options followed by
// a list of steps, each holding exactly one operation.
//
//	width: 320
//	height: 240
//	color: "#ff0000"
//	steps:
//	  - tool: spray
//	  - stroke: [[10, 10], [40, 25], [80, 60]]
//	  - shape: star
//	  - drag: [[100, 100], [160, 150]]
//	  - undo: 1
type Script struct {
	Config `yaml:",inline"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single script operation. Exactly one field must be set.
type Step struct {
	Tool          string      `yaml:"tool,omitempty"`
	Shape         string      `yaml:"shape,omitempty"`
	Color         string      `yaml:"color,omitempty"`
	Size          *float64    `yaml:"size,omitempty"`
	Opacity       *float64    `yaml:"opacity,omitempty"`
	Fill          *bool       `yaml:"fill,omitempty"`
	Blend         string      `yaml:"blend,omitempty"`
	Stroke        [][]float64 `yaml:"stroke,omitempty"`
	Drag          [][]float64 `yaml:"drag,omitempty"`
	FillAt        []float64   `yaml:"fill-at,omitempty"`
	Undo          int         `yaml:"undo,omitempty"`
	Redo          int         `yaml:"redo,omitempty"`
	Clear         bool        `yaml:"clear,omitempty"`
	Resize        []int       `yaml:"resize,omitempty"`
	Rescale       []int       `yaml:"rescale,omitempty"`
	Swatch        *int        `yaml:"swatch,omitempty"`
	PaletteAdd    string      `yaml:"palette-add,omitempty"`
	PaletteRemove *int        `yaml:"palette-remove,omitempty"`
}

// ErrInvalidStep is returned for a step with zero or several operations,
// or with malformed arguments.
var ErrInvalidStep = errors.New("invalid script step")

// ParseScript decodes a YAML script.
func ParseScript(r io.Reader) (*Script, error) {
	var sc Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return &sc, nil
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, st := range sc.Steps {
		if _, err := st.Op(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// LoadScript reads and decodes the script file at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the script file: %w", err)
	}
	defer f.Close()

	return ParseScript(f)
}

// NewSession creates the session the script runs on. Options set by the
// script take precedence over base.
func (sc *Script) NewSession(base Config) (*Session, error) {
	return NewSession(base.Merge(sc.Config))
}

// Op returns the name of the operation held by the step.
func (st Step) Op() (string, error) {
	var ops []string
	set := func(ok bool, name string) {
		if ok {
			ops = append(ops, name)
		}
	}
	set(st.Tool != "", "tool")
	set(st.Shape != "", "shape")
	set(st.Color != "", "color")
	set(st.Size != nil, "size")
	set(st.Opacity != nil, "opacity")
	set(st.Fill != nil, "fill")
	set(st.Blend != "", "blend")
	set(st.Stroke != nil, "stroke")
	set(st.Drag != nil, "drag")
	set(st.FillAt != nil, "fill-at")
	set(st.Undo != 0, "undo")
	set(st.Redo != 0, "redo")
	set(st.Clear, "clear")
	set(st.Resize != nil, "resize")
	set(st.Rescale != nil, "rescale")
	set(st.Swatch != nil, "swatch")
	set(st.PaletteAdd != "", "palette-add")
	set(st.PaletteRemove != nil, "palette-remove")

	switch len(ops) {
	case 0:
		return "", fmt.Errorf("%w: no operation", ErrInvalidStep)
	case 1:
		return ops[0], nil
	}
	return "", fmt.Errorf("%w: several operations %v", ErrInvalidStep, ops)
}

// Run executes the script steps in order. The first failing step aborts the
// run; the error names its (1-based) index.
func (s *Session) Run(sc *Script) error {
	for i, st := range sc.Steps {
		op, err := st.Op()
		if err == nil {
			err = s.apply(op, st)
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
	}
	return nil
}

func (s *Session) apply(op string, st Step) error {
	switch op {
	case "tool":
		kind, err := ParseTool(st.Tool)
		if err != nil {
			return err
		}
		return s.SelectTool(kind)
	case "shape":
		kind, err := ParseShape(st.Shape)
		if err != nil {
			return err
		}
		return s.SelectShape(kind)
	case "color":
		return s.SetColor(st.Color)
	case "size":
		return s.SetSize(*st.Size)
	case "opacity":
		return s.SetOpacity(*st.Opacity)
	case "fill":
		s.SetFill(*st.Fill)
	case "blend":
		return s.SetBlendMode(st.Blend)
	case "stroke":
		pts, err := toPoints(st.Stroke)
		if err != nil {
			return err
		}
		s.PointerDown(pts[0])
		for _, p := range pts[1:] {
			s.PointerMove(p)
		}
		s.PointerUp(pts[len(pts)-1])
	case "drag":
		pts, err := toPoints(st.Drag)
		if err != nil {
			return err
		}
		if len(pts) != 2 {
			return fmt.Errorf("%w: drag needs a start and an end point", ErrInvalidStep)
		}
		s.PointerDown(pts[0])
		s.PointerMove(pts[1])
		s.PointerUp(pts[1])
	case "fill-at":
		p, err := toPoint(st.FillAt)
		if err != nil {
			return err
		}
		return s.FloodFill(p)
	case "undo":
		for n := 0; n < st.Undo; n++ {
			if err := s.Undo(); err != nil {
				return err
			}
		}
	case "redo":
		for n := 0; n < st.Redo; n++ {
			if err := s.Redo(); err != nil {
				return err
			}
		}
	case "clear":
		s.Clear()
	case "resize":
		if len(st.Resize) != 2 {
			return fmt.Errorf("%w: resize needs [width, height]", ErrInvalidStep)
		}
		return s.Resize(st.Resize[0], st.Resize[1])
	case "rescale":
		if len(st.Rescale) != 2 {
			return fmt.Errorf("%w: rescale needs [width, height]", ErrInvalidStep)
		}
		return s.Rescale(st.Rescale[0], st.Rescale[1])
	case "swatch":
		return s.SelectSwatch(*st.Swatch)
	case "palette-add":
		_, err := s.palette.Add(st.PaletteAdd)
		return err
	case "palette-remove":
		return s.palette.Remove(*st.PaletteRemove)
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidStep, op)
	}
	return nil
}

func toPoints(coords [][]float64) ([]Point, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidStep)
	}
	pts := make([]Point, 0, len(coords))
	for _, c := range coords {
		p, err := toPoint(c)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func toPoint(c []float64) (Point, error) {
	if len(c) != 2 {
		return Point{}, fmt.Errorf("%w: point %v is not an [x, y] pair", ErrInvalidStep, c)
	}
	return Pt(c[0], c[1]), nil
}
