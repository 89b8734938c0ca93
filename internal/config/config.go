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
	Scraper ScraperConfig `yaml:"scraper" mapstructure:"scraper"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ScraperConfig configures the browser session and pagination behavior.
type ScraperConfig struct {
	Headless        bool   `yaml:"headless" mapstructure:"headless"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
	NavTimeoutSecs  int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	SettleDelaySecs int    `yaml:"settle_delay_secs" mapstructure:"settle_delay_secs"`
	PageDelaySecs   int    `yaml:"page_delay_secs" mapstructure:"page_delay_secs"`
	EnrichDelaySecs int    `yaml:"enrich_delay_secs" mapstructure:"enrich_delay_secs"`
	MaxPages        int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// ServerConfig configures the web UI server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// ExportConfig configures the XLSX export.
type ExportConfig struct {
	Output string `yaml:"output" mapstructure:"output"`
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
	v.SetEnvPrefix("TWOGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.nav_timeout_secs", 20)
	v.SetDefault("scraper.settle_delay_secs", 3)
	v.SetDefault("scraper.page_delay_secs", 2)
	v.SetDefault("scraper.enrich_delay_secs", 1)
	v.SetDefault("scraper.max_pages", 200)
	v.SetDefault("server.port", 5000)
	v.SetDefault("export.output", "2gis_results.xlsx")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
