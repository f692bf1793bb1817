package easel

import (
	"fmt"
	"strings"

	"github.com/esimov/easel/imop"
)

// ToolKind identifies one of the freehand painting tools.
type ToolKind int

// The supported tools.
const (
	ToolBrush ToolKind = iota
	ToolEraser
	ToolSpray
	ToolMarker
	ToolOilBrush
)

const (
	// sprayDabs is the number of dabs placed by a single spray call.
	sprayDabs = 10
	// oilDensity is the number of bristle segments drawn by one oil brush call.
	oilDensity = 5
	// markerAlpha scales the configured opacity of the marker ink.
	markerAlpha = 0.5
	// oilAlpha scales the configured opacity of the oil brush.
	oilAlpha = 0.2
)

var toolNames = map[ToolKind]string{
	ToolBrush:    "brush",
	ToolEraser:   "eraser",
	ToolSpray:    "spray",
	ToolMarker:   "marker",
	ToolOilBrush: "oilbrush",
}

var toolLabels = map[ToolKind]string{
	ToolBrush:    "Brush",
	ToolEraser:   "Eraser",
	ToolSpray:    "Spray",
	ToolMarker:   "Marker",
	ToolOilBrush: "Oil Brush",
}

// Label returns the human readable name of the tool.
func (k ToolKind) Label() string {
	if l, ok := toolLabels[k]; ok {
		return l
	}
	return k.String()
}

func (k ToolKind) String() string {
	if name, ok := toolNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ToolKind(%d)", int(k))
}

// ParseTool returns the tool kind with the given (case insensitive) name.
func ParseTool(name string) (ToolKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	for k, n := range toolNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// Tool paints freehand strokes. Draw is invoked once when the pointer goes
// down (with from == to) and once per pointer move, from the previous
// pointer position to the current one. Tools keep no state between calls.
type Tool interface {
	Kind() ToolKind
	Draw(s *Surface, from, to Point, cfg StrokeConfig, rnd Jitter)
}

type (
	brush    struct{}
	eraser   struct{}
	spray    struct{}
	marker   struct{}
	oilBrush struct{}
)

// ToolFor returns the strategy implementing the given tool kind.
func ToolFor(kind ToolKind) (Tool, error) {
	switch kind {
	case ToolBrush:
		return brush{}, nil
	case ToolEraser:
		return eraser{}, nil
	case ToolSpray:
		return spray{}, nil
	case ToolMarker:
		return marker{}, nil
	case ToolOilBrush:
		return oilBrush{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownTool, kind)
}

func (brush) Kind() ToolKind { return ToolBrush }

func (brush) Draw(s *Surface, from, to Point, cfg StrokeConfig, _ Jitter) {
	s.StrokeSegment(from, to, cfg)
}

func (eraser) Kind() ToolKind { return ToolEraser }

// Draw paints with the canvas background, fully replacing the pixels.
func (eraser) Draw(s *Surface, from, to Point, cfg StrokeConfig, _ Jitter) {
	cfg.Color = White
	cfg.Opacity = 1
	cfg.Op = imop.Copy
	s.StrokeSegment(from, to, cfg)
}

func (spray) Kind() ToolKind { return ToolSpray }

func (spray) Draw(s *Surface, _, to Point, cfg StrokeConfig, rnd Jitter) {
	s.ScatterDabs(to, cfg.Diameter, sprayDabs, cfg, true, rnd)
}

func (marker) Kind() ToolKind { return ToolMarker }

func (marker) Draw(s *Surface, from, to Point, cfg StrokeConfig, _ Jitter) {
	cfg.Opacity *= markerAlpha
	s.StrokeSegment(from, to, cfg)
}

func (oilBrush) Kind() ToolKind { return ToolOilBrush }

// Draw spreads short bristle strokes from random points around the pointer
// back to the pointer itself.
func (oilBrush) Draw(s *Surface, _, to Point, cfg StrokeConfig, rnd Jitter) {
	cfg.Opacity *= oilAlpha
	for i := 0; i < oilDensity; i++ {
		s.StrokeSegment(to.Add(jitterOffset(cfg.Diameter, rnd)), to, cfg)
	}
}
