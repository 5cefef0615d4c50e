package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	WebMap WebMapConfig `yaml:"webmap" mapstructure:"webmap"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite district store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MapConfig configures the static choropleth renderer.
type MapConfig struct {
	EPSG   int     `yaml:"epsg" mapstructure:"epsg"`
	Width  float64 `yaml:"width_inches" mapstructure:"width_inches"`
	Height float64 `yaml:"height_inches" mapstructure:"height_inches"`
}

// WebMapConfig configures the interactive HTML map.
type WebMapConfig struct {
	CenterLat    float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon    float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom         int     `yaml:"zoom" mapstructure:"zoom"`
	SatelliteURL string  `yaml:"satellite_url" mapstructure:"satellite_url"`
	Caption      string  `yaml:"caption" mapstructure:"caption"`
	OutPath      string  `yaml:"out_path" mapstructure:"out_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "district-atlas.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("map.epsg", 3857)
	v.SetDefault("map.width_inches", 10.0)
	v.SetDefault("map.height_inches", 10.0)
	v.SetDefault("webmap.center_lat", 28.2)
	v.SetDefault("webmap.center_lon", 84.1)
	v.SetDefault("webmap.zoom", 7)
	v.SetDefault("webmap.satellite_url", "https://mt1.google.com/vt/lyrs=s&x={x}&y={y}&z={z}")
	v.SetDefault("webmap.caption", "Number of Schools per 1000 Population")
	v.SetDefault("webmap.out_path", "../images/schools_per_1000_population_nepal.html")

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
