package bivar

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/bivarmap/internal/frame"
)

// mapStyle is the base style of the underlying map canvas.
const mapStyle = "white-bg"

// ComposeOptions names the table columns the composer reads.
type ComposeOptions struct {
	XCol    string // first variable column (default "x")
	YCol    string // second variable column (default "y")
	IDCol   string // join-key column matching feature ids (default "id")
	NameCol string // display-name column (default "name")
}

func (o ComposeOptions) withDefaults() ComposeOptions {
	if o.XCol == "" {
		o.XCol = "x"
	}
	if o.YCol == "" {
		o.YCol = "y"
	}
	if o.IDCol == "" {
		o.IDCol = "id"
	}
	if o.NameCol == "" {
		o.NameCol = "name"
	}
	return o
}

// Compose classifies the table, builds the choropleth layer and legend
// overlay, and returns the complete RenderSpec. The caller's frame and
// config are never modified. The ramp is validated before anything
// else so a bad palette fails fast.
func Compose(f *frame.Frame, colors Ramp, fc *geojson.FeatureCollection, opts ComposeOptions, cfg Config) (*RenderSpec, error) {
	if err := colors.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	// Scale-dependent values are retuned when the requested width
	// departs from the reference width the defaults were tuned for.
	if cfg.Width != ReferenceWidth {
		var err error
		cfg, err = Rescale(cfg.Width, []ScaleKey{ScaleHeight, ScalePlotTitleSize, ScaleLegendFontSize, ScaleMapZoom}, cfg)
		if err != nil {
			return nil, eris.Wrap(err, "compose: rescale")
		}
	}

	classified, err := Classify(f, opts.XCol, opts.YCol)
	if err != nil {
		return nil, eris.Wrap(err, "compose")
	}

	ids, err := classified.Strings(opts.IDCol)
	if err != nil {
		return nil, eris.Wrap(err, "compose: id column")
	}
	names, err := classified.Strings(opts.NameCol)
	if err != nil {
		return nil, eris.Wrap(err, "compose: name column")
	}
	xs, err := classified.Floats(opts.XCol)
	if err != nil {
		return nil, eris.Wrap(err, "compose: x column")
	}
	ys, err := classified.Floats(opts.YCol)
	if err != nil {
		return nil, eris.Wrap(err, "compose: y column")
	}
	classes, err := classified.Ints(BinsColumn)
	if err != nil {
		return nil, eris.Wrap(err, "compose: bins column")
	}

	stops, err := colors.Stops()
	if err != nil {
		return nil, err
	}

	hover := make([]HoverDatum, len(ids))
	for i := range ids {
		hover[i] = HoverDatum{Name: names[i], ID: ids[i], X: xs[i], Y: ys[i]}
	}

	boxes, labels, err := BuildLegend(colors, cfg)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("composed bivariate map",
		zap.Int("rows", len(ids)),
		zap.Float64("width", cfg.Width),
		zap.Float64("height", cfg.Height),
	)

	return &RenderSpec{
		Choropleth: ChoroplethLayer{
			Locations:       ids,
			Classes:         classes,
			ColorScale:      stops,
			HoverData:       hover,
			HoverTemplate:   hoverTemplate(cfg),
			MarkerLineWidth: cfg.BordersWidth,
			MarkerLineColor: cfg.BordersColor,
			ShowScale:       false,
		},
		Boundary:     fc,
		LegendBoxes:  boxes,
		LegendLabels: labels,
		Layout: Layout{
			Title:     cfg.PlotTitle,
			TitleSize: cfg.PlotTitleSize,
			Width:     cfg.Width,
			Height:    cfg.Height,
			CenterLat: cfg.CenterLat,
			CenterLon: cfg.CenterLon,
			Zoom:      cfg.MapZoom,
			MapStyle:  mapStyle,
		},
	}, nil
}

// hoverTemplate renders the fixed hover layout: a bold name line with
// the join id, one line per variable, and a terminal <extra></extra>
// marker suppressing the renderer's secondary tooltip box.
func hoverTemplate(cfg Config) string {
	return strings.Join([]string{
		"<b>%{customdata[0]}</b> (ID: %{customdata[1]})",
		cfg.HoverXLabel + ": %{customdata[2]}",
		cfg.HoverYLabel + ": %{customdata[3]}",
		"<extra></extra>",
	}, "<br>")
}
