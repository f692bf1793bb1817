package easel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	assert.NoError(cfg.Validate())
	assert.Equal(DefaultConfig(), Config{}.withDefaults())
	assert.Equal(DefaultPalette, cfg.Palette)

	// Changing the returned palette does not alter the defaults.
	cfg.Palette[0] = "#abcdef"
	assert.Equal("#000000", DefaultPalette[0])
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{"negative width", Config{Width: -1}},
		{"negative history", Config{History: -2}},
		{"bad background", Config{Background: "#12"}},
		{"bad color", Config{Color: "blue"}},
		{"negative size", Config{Size: -4}},
		{"opacity above one", Config{Opacity: Float(1.2)}},
		{"negative opacity", Config{Opacity: Float(-0.1)}},
		{"unknown tool", Config{Tool: "lasso"}},
		{"unknown blend", Config{Blend: "dodge"}},
		{"bad swatch", Config{Palette: []string{"#fff", "nope"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}

	assert.NoError(t, Config{Background: "Transparent", Tool: "heart", Blend: "screen"}.Validate())
}

func TestConfig_Load(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "easel.yaml")
	data := []byte("width: 64\nheight: 48\ncolor: \"#336699\"\ntool: spray\nfill: true\npalette: [\"#111111\", \"#222222\"]\n")
	assert.NoError(os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(64, cfg.Width)
	assert.Equal(48, cfg.Height)
	assert.Equal("#336699", cfg.Color)
	assert.Equal("spray", cfg.Tool)
	assert.True(*cfg.Fill)
	assert.Equal([]string{"#111111", "#222222"}, cfg.Palette)
	assert.Equal(DefaultCapacity, cfg.History)
	assert.Equal(5.0, cfg.Size)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	assert.NoError(os.WriteFile(bad, []byte("width: [1, 2"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(err)

	invalid := filepath.Join(dir, "invalid.yaml")
	assert.NoError(os.WriteFile(invalid, []byte("opacity: 3\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.Error(err)
}

func TestConfig_Merge(t *testing.T) {
	assert := assert.New(t)

	base := DefaultConfig()
	got := base.Merge(Config{Width: 10, Color: "#ff0000", Fill: Bool(true), Seed: 3})

	assert.Equal(10, got.Width)
	assert.Equal(base.Height, got.Height)
	assert.Equal("#ff0000", got.Color)
	assert.True(*got.Fill)
	assert.Equal(1.0, *got.Opacity)
	assert.False(*base.Fill, "merging does not alias the source")
	assert.Equal(int64(3), got.Seed)
	assert.Equal(base.Palette, got.Palette)
}

func TestConfig_ExplicitZeroValues(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "easel.yaml")
	assert.NoError(os.WriteFile(path, []byte("opacity: 0\nfill: true\n"), 0644))
	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal(0.0, *cfg.Opacity)
	assert.True(*cfg.Fill)

	// An explicit false turns off a fill set by an earlier layer.
	merged := cfg.Merge(Config{Fill: Bool(false)})
	assert.False(*merged.Fill)
	assert.Equal(0.0, *merged.Opacity)

	merged = cfg.Merge(Config{Opacity: Float(0.25)})
	assert.Equal(0.25, *merged.Opacity)
	assert.True(*merged.Fill)

	s, err := NewSession(Config{Width: 4, Height: 4, Opacity: Float(0)})
	assert.NoError(err)
	assert.Equal(0.0, s.Opacity())

	s, err = NewSession(cfg)
	assert.NoError(err)
	assert.Equal(0.0, s.Opacity())
	assert.True(s.Fill())
}

func TestConfig_TransparentBackground(t *testing.T) {
	s, err := NewSession(Config{Width: 4, Height: 4, Background: "transparent"})
	assert.NoError(t, err)
	assert.Equal(t, 16, countColor(s.Surface(), Transparent))

	// Flood filling an empty canvas paints all of it.
	assert.NoError(t, s.FloodFill(Pt(1, 1)))
	assert.Equal(t, 16, countColor(s.Surface(), black))
}
