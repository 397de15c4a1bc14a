package render

import (
	"encoding/json"
	"html/template"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bivarmap/internal/bivar"
)

// bandedScale expands the nine class stops into a piecewise-constant
// Plotly colorscale: each color covers one ninth of the range with
// identical colors at both band edges, so nothing blends across class
// boundaries.
func bandedScale(stops []bivar.ScaleStop) [][2]any {
	bands := make([][2]any, 0, len(stops)*2)
	n := float64(len(stops))
	for i, s := range stops {
		bands = append(bands,
			[2]any{float64(i) / n, s.Color},
			[2]any{float64(i+1) / n, s.Color},
		)
	}
	return bands
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>body { margin: 0; font-family: sans-serif; }</style>
</head>
<body>
<div id="map"></div>
<script>
const spec = {{.Spec}};
const scale = {{.Scale}};

const trace = {
  type: "choroplethmapbox",
  geojson: spec.boundary,
  locations: spec.choropleth.locations,
  z: spec.choropleth.classes,
  zmin: 0,
  zmax: 8,
  colorscale: scale,
  showscale: spec.choropleth.show_scale,
  marker: {
    line: {
      width: spec.choropleth.marker_line_width,
      color: spec.choropleth.marker_line_color
    }
  },
  customdata: spec.choropleth.hover_data.map(d => [d.name, d.id, d.x, d.y]),
  hovertemplate: spec.choropleth.hover_template
};

const shapes = spec.legend_boxes.map(b => ({
  type: "rect",
  xref: "paper", yref: "paper",
  xanchor: "right", yanchor: "top",
  x0: b.x0, y0: b.y0, x1: b.x1, y1: b.y1,
  fillcolor: b.fillcolor,
  line: { color: b.line_color, width: b.line_width }
}));

const annotations = spec.legend_labels.map(l => ({
  xref: "paper", yref: "paper",
  x: l.x, y: l.y,
  xanchor: l.xanchor, yanchor: l.yanchor,
  text: l.text,
  textangle: l.angle,
  showarrow: false,
  borderpad: 0,
  font: { size: l.font_size, color: l.font_color }
}));

const layout = {
  title: {
    text: spec.layout.title,
    font: { size: spec.layout.title_size },
    x: 0.5, xanchor: "center", y: 0.95
  },
  width: spec.layout.width,
  height: spec.layout.height,
  mapbox: {
    style: spec.layout.map_style,
    center: { lat: spec.layout.center_lat, lon: spec.layout.center_lon },
    zoom: spec.layout.zoom
  },
  shapes: shapes,
  annotations: annotations
};

Plotly.newPlot("map", [trace], layout);
</script>
</body>
</html>
`))

// WriteHTML writes a self-contained page that renders the spec with
// Plotly loaded from its CDN.
func WriteHTML(spec *bivar.RenderSpec, path string) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return eris.Wrap(err, "render: marshal spec")
	}
	scaleJSON, err := json.Marshal(bandedScale(spec.Choropleth.ColorScale))
	if err != nil {
		return eris.Wrap(err, "render: marshal colorscale")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	data := struct {
		Title string
		Spec  template.JS
		Scale template.JS
	}{
		Title: spec.Layout.Title,
		Spec:  template.JS(specJSON),
		Scale: template.JS(scaleJSON),
	}
	if err := pageTemplate.Execute(f, data); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	return nil
}
