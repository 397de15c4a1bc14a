package bivar

import "math"

// Box is one legend rectangle in normalized paper coordinates.
// Corners run from the top-right anchor toward bottom-left, so
// X1 < X0 and Y1 < Y0.
type Box struct {
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	FillColor string  `json:"fillcolor"`
	LineColor string  `json:"line_color"`
	LineWidth float64 `json:"line_width"`
}

// Label is a legend axis annotation in paper coordinates.
type Label struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	Angle     float64 `json:"angle"`
	FontSize  float64 `json:"font_size"`
	FontColor string  `json:"font_color"`
}

// round4 rounds to 4 decimal places for stable output; the precision
// itself is irrelevant at paper scale.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// BuildLegend computes the nine legend rectangles and the two axis
// labels from the configuration. Rectangles are laid out row-major
// from the (LegendRight, LegendTop) anchor; cell height is divided by
// the canvas ratio so cells render visually square. Colors are
// consumed in reverse class order to match the drawing direction.
func BuildLegend(colors Ramp, cfg Config) ([]Box, []Label, error) {
	if err := colors.Validate(); err != nil {
		return nil, nil, err
	}
	legendColors := colors.Reversed()

	width := cfg.BoxW
	height := cfg.BoxH / cfg.Ratio

	boxes := make([]Box, 0, RampSize)
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			boxes = append(boxes, Box{
				X0:        round4(cfg.LegendRight - float64(col-1)*width),
				Y0:        round4(cfg.LegendTop - float64(row-1)*height),
				X1:        round4(cfg.LegendRight - float64(col)*width),
				Y1:        round4(cfg.LegendTop - float64(row)*height),
				FillColor: legendColors[len(boxes)],
				LineColor: cfg.LineColor,
				LineWidth: cfg.LineWidth,
			})
		}
	}

	// Both labels anchor at the far corner of the last cell (row 3,
	// col 3); the y label is rotated 270 degrees.
	corner := boxes[RampSize-1]
	labels := []Label{
		{
			Text:      cfg.LegendXLabel + " -->",
			X:         corner.X1,
			Y:         corner.Y1,
			XAnchor:   "left",
			YAnchor:   "top",
			Angle:     0,
			FontSize:  cfg.LegendFontSize,
			FontColor: cfg.LegendFontColor,
		},
		{
			Text:      cfg.LegendYLabel + " -->",
			X:         corner.X1,
			Y:         corner.Y1,
			XAnchor:   "right",
			YAnchor:   "bottom",
			Angle:     270,
			FontSize:  cfg.LegendFontSize,
			FontColor: cfg.LegendFontColor,
		},
	}

	return boxes, labels, nil
}
