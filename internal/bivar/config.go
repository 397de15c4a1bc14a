// Package bivar implements the bivariate choropleth pipeline: tercile
// classification of two variables into a 0-8 joint class, legend
// geometry for the 3x3 color matrix, and composition of an inert
// RenderSpec for an external renderer.
package bivar

import (
	"math"

	"github.com/rotisserie/eris"
)

// ReferenceWidth is the canvas width all default sizes are tuned for.
// Rescale factors are computed against it.
const ReferenceWidth = 1000.0

// Config holds the display parameters for a single map. It is a plain
// value: every stage receives and returns it by value, so no two
// invocations can share mutable state.
type Config struct {
	PlotTitle     string  // title text
	PlotTitleSize float64 // title font size
	Width         float64 // width of the map container
	Ratio         float64 // height-to-width ratio
	Height        float64 // derived: Width * Ratio

	CenterLat float64 // latitude of the map center
	CenterLon float64 // longitude of the map center
	MapZoom   float64 // renderer zoom, logarithmic in linear scale

	HoverXLabel string // hover label for the x variable
	HoverYLabel string // hover label for the y variable

	BordersWidth float64 // width of the entity borders
	BordersColor string  // color of the entity borders

	LegendTop   float64 // vertical position of the legend's top-right corner (0..1)
	LegendRight float64 // horizontal position of the legend's top-right corner (0..1)
	BoxW        float64 // width of each legend rectangle (paper coords)
	BoxH        float64 // height of each legend rectangle (paper coords)
	LineColor   string  // legend rectangle border color
	LineWidth   float64 // legend rectangle border width

	LegendXLabel    string  // legend label for the x variable
	LegendYLabel    string  // legend label for the y variable
	LegendFontSize  float64 // legend font size
	LegendFontColor string  // legend font color
}

// Defaults returns the base configuration tuned for a 1000px canvas.
// Height is derived from Width and Ratio.
func Defaults() Config {
	c := Config{
		PlotTitle:       "Bivariate choropleth map",
		PlotTitleSize:   20,
		Width:           1000,
		Ratio:           0.8,
		CenterLat:       0,
		CenterLon:       0,
		MapZoom:         3,
		HoverXLabel:     "Label x variable",
		HoverYLabel:     "Label y variable",
		BordersWidth:    0.5,
		BordersColor:    "#f8f8f8",
		LegendTop:       1,
		LegendRight:     1,
		BoxW:            0.04,
		BoxH:            0.04,
		LineColor:       "#f8f8f8",
		LineWidth:       0,
		LegendXLabel:    "Higher x value",
		LegendYLabel:    "Higher y value",
		LegendFontSize:  11,
		LegendFontColor: "#333",
	}
	c.Height = c.Width * c.Ratio
	return c
}

// ScaleKey names a config value that Rescale knows how to adjust.
// The set is closed: keys outside it are rejected with
// ErrUnknownScaleKey rather than silently ignored.
type ScaleKey string

const (
	ScaleHeight         ScaleKey = "height"
	ScalePlotTitleSize  ScaleKey = "plot_title_size"
	ScaleLegendFontSize ScaleKey = "legend_font_size"
	ScaleBordersWidth   ScaleKey = "borders_width"
	ScaleBoxW           ScaleKey = "box_w"
	ScaleBoxH           ScaleKey = "box_h"
	ScaleLineWidth      ScaleKey = "line_width"
	ScaleMapZoom        ScaleKey = "map_zoom"
)

// Rescale returns a copy of cfg with each selected key scaled by
// newWidth / ReferenceWidth. The zoom key follows a logarithmic rule:
// the renderer's zoom is log2 of the linear scale factor, so
// newZoom = log2(factor) + oldZoom. Non-selected keys pass through
// unchanged.
func Rescale(newWidth float64, keys []ScaleKey, cfg Config) (Config, error) {
	factor := newWidth / ReferenceWidth
	for _, k := range keys {
		switch k {
		case ScaleHeight:
			cfg.Height *= factor
		case ScalePlotTitleSize:
			cfg.PlotTitleSize *= factor
		case ScaleLegendFontSize:
			cfg.LegendFontSize *= factor
		case ScaleBordersWidth:
			cfg.BordersWidth *= factor
		case ScaleBoxW:
			cfg.BoxW *= factor
		case ScaleBoxH:
			cfg.BoxH *= factor
		case ScaleLineWidth:
			cfg.LineWidth *= factor
		case ScaleMapZoom:
			cfg.MapZoom = math.Log2(factor) + cfg.MapZoom
		default:
			return Config{}, eris.Wrapf(ErrUnknownScaleKey, "%q", string(k))
		}
	}
	return cfg, nil
}
