package easel

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/esimov/easel/imop"
	"github.com/esimov/easel/utils"
	"gopkg.in/yaml.v3"
)

// Config holds the options a Session is created with.
// The zero value of any field selects its default. Opacity and Fill are
// pointers so that an explicit zero can be told apart from an unset field.
type Config struct {
	Width      int      `yaml:"width,omitempty"`
	Height     int      `yaml:"height,omitempty"`
	History    int      `yaml:"history,omitempty"`
	Background string   `yaml:"background,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	Size       float64  `yaml:"size,omitempty"`
	Opacity    *float64 `yaml:"opacity,omitempty"`
	Fill       *bool    `yaml:"fill,omitempty"`
	Tool       string   `yaml:"tool,omitempty"`
	Blend      string   `yaml:"blend,omitempty"`
	Palette    []string `yaml:"palette,omitempty"`
	// Seed initializes the jitter source of spray and oil brush.
	// Zero seeds it from the current time.
	Seed int64 `yaml:"seed,omitempty"`
}

// DefaultConfig returns the options used for an empty Config.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		History:    DefaultCapacity,
		Background: "#ffffff",
		Color:      "#000000",
		Size:       5,
		Opacity:    Float(1),
		Fill:       Bool(false),
		Tool:       ToolBrush.String(),
		Blend:      "normal",
		Palette:    append([]string(nil), DefaultPalette...),
	}
}

// Float returns a pointer to v, for the optional fields of Config.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for the optional fields of Config.
func Bool(v bool) *bool { return &v }

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// withDefaults fills every unset field with its default value.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
	if c.History == 0 {
		c.History = def.History
	}
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.Color == "" {
		c.Color = def.Color
	}
	if c.Size == 0 {
		c.Size = def.Size
	}
	if c.Opacity == nil {
		c.Opacity = def.Opacity
	}
	if c.Fill == nil {
		c.Fill = def.Fill
	}
	if c.Tool == "" {
		c.Tool = def.Tool
	}
	if c.Blend == "" {
		c.Blend = def.Blend
	}
	if c.Palette == nil {
		c.Palette = def.Palette
	}
	return c
}

// Validate checks the configuration values. Unset fields are accepted.
func (c Config) Validate() error {
	c = c.withDefaults()

	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height))
	}
	if c.History < 0 {
		errs = append(errs, fmt.Errorf("history capacity must be positive, got %d", c.History))
	}
	if _, err := c.background(); err != nil {
		errs = append(errs, err)
	}
	if _, err := utils.HexToRGBA(c.Color); err != nil {
		errs = append(errs, err)
	}
	if c.Size < 0 {
		errs = append(errs, fmt.Errorf("brush size must be positive, got %v", c.Size))
	}
	if o := *c.Opacity; !(o >= 0 && o <= 1) {
		errs = append(errs, fmt.Errorf("opacity must be within [0, 1], got %v", o))
	}
	if _, err := ParseTool(c.Tool); err != nil {
		if _, serr := ParseShape(c.Tool); serr != nil {
			errs = append(errs, err)
		}
	}
	if err := imop.NewBlend().Set(c.Blend); err != nil {
		errs = append(errs, err)
	}
	for _, hex := range c.Palette {
		if _, err := utils.HexToRGBA(hex); err != nil {
			errs = append(errs, fmt.Errorf("palette: %w", err))
		}
	}
	return errors.Join(errs...)
}

// background decodes the canvas background. "transparent" selects a fully
// transparent canvas.
func (c Config) background() (color.NRGBA, error) {
	if strings.EqualFold(strings.TrimSpace(c.Background), "transparent") {
		return Transparent, nil
	}
	return utils.HexToRGBA(c.Background)
}

// Merge returns c with every field set in o taking precedence.
func (c Config) Merge(o Config) Config {
	if o.Width != 0 {
		c.Width = o.Width
	}
	if o.Height != 0 {
		c.Height = o.Height
	}
	if o.History != 0 {
		c.History = o.History
	}
	if o.Background != "" {
		c.Background = o.Background
	}
	if o.Color != "" {
		c.Color = o.Color
	}
	if o.Size != 0 {
		c.Size = o.Size
	}
	if o.Opacity != nil {
		c.Opacity = Float(*o.Opacity)
	}
	if o.Fill != nil {
		c.Fill = Bool(*o.Fill)
	}
	if o.Tool != "" {
		c.Tool = o.Tool
	}
	if o.Blend != "" {
		c.Blend = o.Blend
	}
	if o.Palette != nil {
		c.Palette = o.Palette
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	return c
}
