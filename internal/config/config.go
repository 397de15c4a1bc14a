// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/bivarmap/internal/bivar"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run/cache persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// FetchConfig configures remote downloads.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// DataConfig configures local data directories.
type DataConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MapConfig mirrors the bivar display parameters so every option can
// be set from config.yaml or BIVARMAP_MAP_* environment variables.
type MapConfig struct {
	PlotTitle       string  `yaml:"plot_title" mapstructure:"plot_title"`
	PlotTitleSize   float64 `yaml:"plot_title_size" mapstructure:"plot_title_size"`
	Width           float64 `yaml:"width" mapstructure:"width"`
	Ratio           float64 `yaml:"ratio" mapstructure:"ratio"`
	CenterLat       float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon       float64 `yaml:"center_lon" mapstructure:"center_lon"`
	MapZoom         float64 `yaml:"map_zoom" mapstructure:"map_zoom"`
	HoverXLabel     string  `yaml:"hover_x_label" mapstructure:"hover_x_label"`
	HoverYLabel     string  `yaml:"hover_y_label" mapstructure:"hover_y_label"`
	BordersWidth    float64 `yaml:"borders_width" mapstructure:"borders_width"`
	BordersColor    string  `yaml:"borders_color" mapstructure:"borders_color"`
	LegendTop       float64 `yaml:"legend_top" mapstructure:"legend_top"`
	LegendRight     float64 `yaml:"legend_right" mapstructure:"legend_right"`
	BoxW            float64 `yaml:"box_w" mapstructure:"box_w"`
	BoxH            float64 `yaml:"box_h" mapstructure:"box_h"`
	LineColor       string  `yaml:"line_color" mapstructure:"line_color"`
	LineWidth       float64 `yaml:"line_width" mapstructure:"line_width"`
	LegendXLabel    string  `yaml:"legend_x_label" mapstructure:"legend_x_label"`
	LegendYLabel    string  `yaml:"legend_y_label" mapstructure:"legend_y_label"`
	LegendFontSize  float64 `yaml:"legend_font_size" mapstructure:"legend_font_size"`
	LegendFontColor string  `yaml:"legend_font_color" mapstructure:"legend_font_color"`
}

// ToBivar converts the config surface into the value type the pipeline
// consumes. Height is seeded at the reference width; composition
// rescales it when the requested width differs, along with the other
// reference-tuned sizes.
func (m MapConfig) ToBivar() bivar.Config {
	return bivar.Config{
		PlotTitle:       m.PlotTitle,
		PlotTitleSize:   m.PlotTitleSize,
		Width:           m.Width,
		Ratio:           m.Ratio,
		Height:          bivar.ReferenceWidth * m.Ratio,
		CenterLat:       m.CenterLat,
		CenterLon:       m.CenterLon,
		MapZoom:         m.MapZoom,
		HoverXLabel:     m.HoverXLabel,
		HoverYLabel:     m.HoverYLabel,
		BordersWidth:    m.BordersWidth,
		BordersColor:    m.BordersColor,
		LegendTop:       m.LegendTop,
		LegendRight:     m.LegendRight,
		BoxW:            m.BoxW,
		BoxH:            m.BoxH,
		LineColor:       m.LineColor,
		LineWidth:       m.LineWidth,
		LegendXLabel:    m.LegendXLabel,
		LegendYLabel:    m.LegendYLabel,
		LegendFontSize:  m.LegendFontSize,
		LegendFontColor: m.LegendFontColor,
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIVARMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "bivarmap.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.user_agent", "bivarmap/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.temp_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Map display defaults come from the pipeline's reference values.
	base := bivar.Defaults()
	v.SetDefault("map.plot_title", base.PlotTitle)
	v.SetDefault("map.plot_title_size", base.PlotTitleSize)
	v.SetDefault("map.width", base.Width)
	v.SetDefault("map.ratio", base.Ratio)
	v.SetDefault("map.center_lat", base.CenterLat)
	v.SetDefault("map.center_lon", base.CenterLon)
	v.SetDefault("map.map_zoom", base.MapZoom)
	v.SetDefault("map.hover_x_label", base.HoverXLabel)
	v.SetDefault("map.hover_y_label", base.HoverYLabel)
	v.SetDefault("map.borders_width", base.BordersWidth)
	v.SetDefault("map.borders_color", base.BordersColor)
	v.SetDefault("map.legend_top", base.LegendTop)
	v.SetDefault("map.legend_right", base.LegendRight)
	v.SetDefault("map.box_w", base.BoxW)
	v.SetDefault("map.box_h", base.BoxH)
	v.SetDefault("map.line_color", base.LineColor)
	v.SetDefault("map.line_width", base.LineWidth)
	v.SetDefault("map.legend_x_label", base.LegendXLabel)
	v.SetDefault("map.legend_y_label", base.LegendYLabel)
	v.SetDefault("map.legend_font_size", base.LegendFontSize)
	v.SetDefault("map.legend_font_color", base.LegendFontColor)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
