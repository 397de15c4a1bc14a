package bivar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLegend_Geometry(t *testing.T) {
	boxes, labels, err := BuildLegend(testRamp(), Defaults())
	require.NoError(t, err)
	require.Len(t, boxes, RampSize)
	require.Len(t, labels, 2)

	// Cell height is BoxH / Ratio = 0.04 / 0.8 = 0.05 so cells render
	// square on the 1000x800 canvas.
	first := boxes[0]
	assert.InDelta(t, 1.0, first.X0, 1e-9)
	assert.InDelta(t, 1.0, first.Y0, 1e-9)
	assert.InDelta(t, 0.96, first.X1, 1e-9)
	assert.InDelta(t, 0.95, first.Y1, 1e-9)

	// Row-major layout: box 3 starts a new row under box 0.
	assert.InDelta(t, first.X0, boxes[3].X0, 1e-9)
	assert.InDelta(t, 0.95, boxes[3].Y0, 1e-9)

	last := boxes[8]
	assert.InDelta(t, 0.88, last.X1, 1e-9)
	assert.InDelta(t, 0.85, last.Y1, 1e-9)

	for _, b := range boxes {
		assert.Less(t, b.X1, b.X0, "corners run right-to-left")
		assert.Less(t, b.Y1, b.Y0, "corners run top-to-bottom")
	}
}

func TestBuildLegend_ColorsReversed(t *testing.T) {
	boxes, _, err := BuildLegend(testRamp(), Defaults())
	require.NoError(t, err)

	// The top-right cell shows the highest class, the bottom-left the lowest.
	assert.Equal(t, "#8", boxes[0].FillColor)
	assert.Equal(t, "#0", boxes[8].FillColor)
}

func TestBuildLegend_Labels(t *testing.T) {
	boxes, labels, err := BuildLegend(testRamp(), Defaults())
	require.NoError(t, err)

	corner := boxes[8]

	x := labels[0]
	assert.Equal(t, "Higher x value -->", x.Text)
	assert.Equal(t, corner.X1, x.X)
	assert.Equal(t, corner.Y1, x.Y)
	assert.Equal(t, "left", x.XAnchor)
	assert.Equal(t, "top", x.YAnchor)
	assert.Equal(t, 0.0, x.Angle)

	y := labels[1]
	assert.Equal(t, "Higher y value -->", y.Text)
	assert.Equal(t, corner.X1, y.X)
	assert.Equal(t, corner.Y1, y.Y)
	assert.Equal(t, "right", y.XAnchor)
	assert.Equal(t, "bottom", y.YAnchor)
	assert.Equal(t, 270.0, y.Angle)

	assert.Equal(t, 11.0, x.FontSize)
	assert.Equal(t, "#333", x.FontColor)
}

func TestBuildLegend_CornersRounded(t *testing.T) {
	cfg := Defaults()
	cfg.LegendRight = 0.123456
	cfg.LegendTop = 0.987654

	boxes, _, err := BuildLegend(testRamp(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.1235, boxes[0].X0)
	assert.Equal(t, 0.9877, boxes[0].Y0)
}

func TestBuildLegend_InvalidRamp(t *testing.T) {
	_, _, err := BuildLegend(Ramp{"#0"}, Defaults())
	assert.ErrorIs(t, err, ErrInvalidColorCount)
}
