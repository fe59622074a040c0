package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/danielpatrickdp/layered-annotator/internal/analyzer"
	"github.com/danielpatrickdp/layered-annotator/internal/logging"
	"github.com/danielpatrickdp/layered-annotator/internal/orchestrator"
	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// EnvPrefix namespaces environment overrides, e.g. ANNOTATOR_DB_PATH.
const EnvPrefix = "ANNOTATOR"

// #region config
// Config is the process configuration shared by the annotator binaries.
type Config struct {
	Seed             uint64         `mapstructure:"seed"`              // 0 = seed from the clock
	HistoryCapacity  int            `mapstructure:"history_capacity"`  // observer history ring size
	IntegrationLevel float64        `mapstructure:"integration_level"` // default level for run
	DBPath           string         `mapstructure:"db_path"`           // empty = no persistence
	ListenAddr       string         `mapstructure:"listen_addr"`       // gRPC listen address
	MetricsAddr      string         `mapstructure:"metrics_addr"`      // empty = metrics endpoint disabled
	Log              logging.Config `mapstructure:"log"`
}

// Orchestrator maps the config onto orchestrator settings.
func (c Config) Orchestrator() orchestrator.Config {
	oc := orchestrator.DefaultConfig()
	oc.Seed = c.Seed
	oc.HistoryCapacity = c.HistoryCapacity
	return oc
}

// #endregion config

// #region load
// Load reads path (optional, YAML), then ANNOTATOR_* environment variables,
// over the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("annotator")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.annotator")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file; defaults and env vars only
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultConfig()

	v.SetDefault("seed", 0)
	v.SetDefault("history_capacity", analyzer.DefaultHistoryCapacity)
	v.SetDefault("integration_level", orchestrator.DefaultIntegration)
	v.SetDefault("db_path", "")
	v.SetDefault("listen_addr", "127.0.0.1:50151")
	v.SetDefault("metrics_addr", "127.0.0.1:9464")
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logDefaults.MaxSizeMB)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age_days", logDefaults.MaxAgeDays)
}

// #endregion load

// #region validate
// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.HistoryCapacity < 0 {
		errs = append(errs, fmt.Errorf("history_capacity must be >= 0, got %d", c.HistoryCapacity))
	}
	if err := report.ValidateIntegrationLevel(c.IntegrationLevel); err != nil {
		errs = append(errs, fmt.Errorf("integration_level: %w", err))
	}
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr must not be empty"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	for _, f := range []struct {
		name string
		n    int
	}{
		{"log.max_size_mb", c.Log.MaxSizeMB},
		{"log.max_backups", c.Log.MaxBackups},
		{"log.max_age_days", c.Log.MaxAgeDays},
	} {
		if f.n < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %d", f.name, f.n))
		}
	}
	return errors.Join(errs...)
}

// #endregion validate
