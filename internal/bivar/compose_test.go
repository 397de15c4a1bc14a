package bivar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/bivarmap/internal/frame"
)

func newComposeFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.Column{Name: "id", Kind: frame.KindString, Strings: []string{"01", "02", "03"}},
		frame.Column{Name: "name", Kind: frame.KindString, Strings: []string{"Alpha", "Beta", "Gamma"}},
		frame.Column{Name: "x", Kind: frame.KindFloat, Floats: []float64{1, 5, 9}},
		frame.Column{Name: "y", Kind: frame.KindFloat, Floats: []float64{10, 20, 30}},
	)
	require.NoError(t, err)
	return f
}

func TestCompose(t *testing.T) {
	f := newComposeFrame(t)
	fc := &geojson.FeatureCollection{}

	spec, err := Compose(f, testRamp(), fc, ComposeOptions{}, Defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"01", "02", "03"}, spec.Choropleth.Locations)
	assert.Equal(t, []int{0, 4, 8}, spec.Choropleth.Classes)
	assert.Len(t, spec.Choropleth.ColorScale, RampSize)
	assert.False(t, spec.Choropleth.ShowScale)
	assert.Same(t, fc, spec.Boundary)

	require.Len(t, spec.Choropleth.HoverData, 3)
	assert.Equal(t, HoverDatum{Name: "Beta", ID: "02", X: 5, Y: 20}, spec.Choropleth.HoverData[1])

	assert.Len(t, spec.LegendBoxes, RampSize)
	assert.Len(t, spec.LegendLabels, 2)

	assert.Equal(t, 1000.0, spec.Layout.Width)
	assert.Equal(t, 800.0, spec.Layout.Height)
	assert.Equal(t, 3.0, spec.Layout.Zoom)
	assert.Equal(t, "white-bg", spec.Layout.MapStyle)
}

func TestCompose_HoverTemplate(t *testing.T) {
	cfg := Defaults()
	cfg.HoverXLabel = "Income"
	cfg.HoverYLabel = "Density"

	spec, err := Compose(newComposeFrame(t), testRamp(), &geojson.FeatureCollection{}, ComposeOptions{}, cfg)
	require.NoError(t, err)

	want := "<b>%{customdata[0]}</b> (ID: %{customdata[1]})<br>" +
		"Income: %{customdata[2]}<br>" +
		"Density: %{customdata[3]}<br>" +
		"<extra></extra>"
	assert.Equal(t, want, spec.Choropleth.HoverTemplate)
}

func TestCompose_RescalesForNonReferenceWidth(t *testing.T) {
	cfg := Defaults()
	cfg.Width = 500

	spec, err := Compose(newComposeFrame(t), testRamp(), &geojson.FeatureCollection{}, ComposeOptions{}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 500.0, spec.Layout.Width)
	assert.InDelta(t, 400.0, spec.Layout.Height, 1e-9)
	assert.InDelta(t, 10.0, spec.Layout.TitleSize, 1e-9)
	assert.InDelta(t, 2.0, spec.Layout.Zoom, 1e-9)

	// Legend box geometry stays put; only fonts and canvas retune.
	assert.InDelta(t, 0.96, spec.LegendBoxes[0].X1, 1e-9)
	assert.InDelta(t, 5.5, spec.LegendLabels[0].FontSize, 1e-9)
}

func TestCompose_CustomColumns(t *testing.T) {
	f, err := frame.New(
		frame.Column{Name: "fips", Kind: frame.KindString, Strings: []string{"a", "b", "c"}},
		frame.Column{Name: "county", Kind: frame.KindString, Strings: []string{"A", "B", "C"}},
		frame.Column{Name: "income", Kind: frame.KindFloat, Floats: []float64{1, 2, 3}},
		frame.Column{Name: "density", Kind: frame.KindFloat, Floats: []float64{3, 2, 1}},
	)
	require.NoError(t, err)

	opts := ComposeOptions{XCol: "income", YCol: "density", IDCol: "fips", NameCol: "county"}
	spec, err := Compose(f, testRamp(), &geojson.FeatureCollection{}, opts, Defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, spec.Choropleth.Locations)
	assert.Equal(t, []int{6, 4, 2}, spec.Choropleth.Classes)
}

func TestCompose_InvalidRampFailsFast(t *testing.T) {
	_, err := Compose(newComposeFrame(t), Ramp{"#0"}, &geojson.FeatureCollection{}, ComposeOptions{}, Defaults())
	assert.ErrorIs(t, err, ErrInvalidColorCount)
}

func TestCompose_MissingColumn(t *testing.T) {
	opts := ComposeOptions{XCol: "missing"}
	_, err := Compose(newComposeFrame(t), testRamp(), &geojson.FeatureCollection{}, opts, Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	f := newComposeFrame(t)
	cfg := Defaults()
	cfg.Width = 500

	_, err := Compose(f, testRamp(), &geojson.FeatureCollection{}, ComposeOptions{}, cfg)
	require.NoError(t, err)

	assert.False(t, f.Has(BinsColumn))
	assert.Equal(t, 500.0, cfg.Width)
	assert.Equal(t, 800.0, cfg.Height, "caller's config keeps its reference height")
}
