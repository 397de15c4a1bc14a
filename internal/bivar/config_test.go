package bivar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 1000.0, cfg.Width)
	assert.Equal(t, 0.8, cfg.Ratio)
	assert.Equal(t, 800.0, cfg.Height, "height must derive from width and ratio")
	assert.Equal(t, 3.0, cfg.MapZoom)
	assert.Equal(t, 0.04, cfg.BoxW)
	assert.Equal(t, "Higher x value", cfg.LegendXLabel)
	assert.Equal(t, "Higher y value", cfg.LegendYLabel)
}

func TestRescale_LinearKeys(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		key   ScaleKey
		get   func(Config) float64
		want  float64
	}{
		{"height half", 500, ScaleHeight, func(c Config) float64 { return c.Height }, 400},
		{"height double", 2000, ScaleHeight, func(c Config) float64 { return c.Height }, 1600},
		{"title size", 500, ScalePlotTitleSize, func(c Config) float64 { return c.PlotTitleSize }, 10},
		{"legend font", 500, ScaleLegendFontSize, func(c Config) float64 { return c.LegendFontSize }, 5.5},
		{"borders width", 500, ScaleBordersWidth, func(c Config) float64 { return c.BordersWidth }, 0.25},
		{"box w", 500, ScaleBoxW, func(c Config) float64 { return c.BoxW }, 0.02},
		{"box h", 2000, ScaleBoxH, func(c Config) float64 { return c.BoxH }, 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rescale(tt.width, []ScaleKey{tt.key}, Defaults())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, tt.get(got), 1e-9)
		})
	}
}

func TestRescale_ZoomIsLogarithmic(t *testing.T) {
	// Halving the canvas zooms out exactly one level; doubling zooms in one.
	half, err := Rescale(500, []ScaleKey{ScaleMapZoom}, Defaults())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, half.MapZoom, 1e-9)

	double, err := Rescale(2000, []ScaleKey{ScaleMapZoom}, Defaults())
	require.NoError(t, err)
	assert.InDelta(t, 4.0, double.MapZoom, 1e-9)
}

func TestRescale_ReferenceWidthIsIdentity(t *testing.T) {
	keys := []ScaleKey{ScaleHeight, ScalePlotTitleSize, ScaleLegendFontSize, ScaleMapZoom}
	got, err := Rescale(ReferenceWidth, keys, Defaults())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestRescale_RoundTripAtReferenceWidth(t *testing.T) {
	keys := []ScaleKey{ScaleHeight, ScalePlotTitleSize, ScaleLegendFontSize, ScaleMapZoom}

	scaled, err := Rescale(500, keys, Defaults())
	require.NoError(t, err)

	// The factor derives from the reference width, not the previous
	// width, so rescaling an already-scaled config at the reference
	// width changes nothing: linear keys multiply by 1 and the zoom
	// shifts by log2(1) = 0.
	restored, err := Rescale(ReferenceWidth, keys, scaled)
	require.NoError(t, err)
	assert.Equal(t, scaled, restored)
	assert.InDelta(t, 2.0, restored.MapZoom, 1e-9)
}

func TestRescale_UnselectedKeysPassThrough(t *testing.T) {
	got, err := Rescale(500, []ScaleKey{ScaleHeight}, Defaults())
	require.NoError(t, err)

	assert.Equal(t, Defaults().PlotTitleSize, got.PlotTitleSize)
	assert.Equal(t, Defaults().MapZoom, got.MapZoom)
	assert.Equal(t, Defaults().Width, got.Width, "rescale never touches width itself")
}

func TestRescale_UnknownKey(t *testing.T) {
	_, err := Rescale(500, []ScaleKey{ScaleHeight, "legend_top"}, Defaults())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownScaleKey)
	assert.Contains(t, err.Error(), "legend_top")
}

func TestRescale_DoesNotMutateInput(t *testing.T) {
	cfg := Defaults()
	_, err := Rescale(500, []ScaleKey{ScaleHeight, ScaleMapZoom}, cfg)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}
