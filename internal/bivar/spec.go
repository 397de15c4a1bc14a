package bivar

import "github.com/twpayne/go-geom/encoding/geojson"

// RenderSpec is the inert description of a finished map: a choropleth
// layer, the legend overlay, and layout parameters. It is consumed by
// an external renderer; nothing in this package draws.
type RenderSpec struct {
	Choropleth   ChoroplethLayer            `json:"choropleth"`
	Boundary     *geojson.FeatureCollection `json:"boundary"`
	LegendBoxes  []Box                      `json:"legend_boxes"`
	LegendLabels []Label                    `json:"legend_labels"`
	Layout       Layout                     `json:"layout"`
}

// ChoroplethLayer describes the data trace: one location per table
// row, its joint class, and the discrete nine-stop color scale.
type ChoroplethLayer struct {
	Locations       []string     `json:"locations"`
	Classes         []int        `json:"classes"`
	ColorScale      []ScaleStop  `json:"colorscale"`
	HoverData       []HoverDatum `json:"hover_data"`
	HoverTemplate   string       `json:"hover_template"`
	MarkerLineWidth float64      `json:"marker_line_width"`
	MarkerLineColor string       `json:"marker_line_color"`
	ShowScale       bool         `json:"show_scale"`
}

// HoverDatum is the per-row hover payload: display name, join id and
// the two raw variable values.
type HoverDatum struct {
	Name string  `json:"name"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Layout carries title, sizing and camera parameters for the renderer.
type Layout struct {
	Title     string  `json:"title"`
	TitleSize float64 `json:"title_size"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      float64 `json:"zoom"`
	MapStyle  string  `json:"map_style"`
}
