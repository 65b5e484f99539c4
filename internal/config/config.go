package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	FileName  = "ncp2pt5.toml"
	EnvPrefix = "NCP2PT5"
)

type Config struct {
	Output  OutputConfig  `mapstructure:"output" toml:"output"`
	Convert ConvertConfig `mapstructure:"convert" toml:"convert"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
	Preview PreviewConfig `mapstructure:"preview" toml:"preview"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch"`
}

type OutputConfig struct {
	Extension string `mapstructure:"extension" toml:"extension"`
	Dir       string `mapstructure:"dir" toml:"dir"` // empty: next to the source file
}

type ConvertConfig struct {
	Workers int `mapstructure:"workers" toml:"workers"`
}

type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

type PreviewConfig struct {
	Scale   float64 `mapstructure:"scale" toml:"scale"`
	Size    int     `mapstructure:"size" toml:"size"`
	Centers bool    `mapstructure:"centers" toml:"centers"`
	Animate bool    `mapstructure:"animate" toml:"animate"`
}

type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.extension", ".pt5")
	v.SetDefault("output.dir", "")
	v.SetDefault("convert.workers", 4)
	v.SetDefault("log.json", false)
	v.SetDefault("preview.scale", 30.0)
	v.SetDefault("preview.size", 800)
	v.SetDefault("preview.centers", false)
	v.SetDefault("preview.animate", false)
	v.SetDefault("watch.debounce_ms", 300)
}

// New returns a viper instance with defaults and NCP2PT5_ environment
// variables bound. If path is empty, ncp2pt5.toml is searched for in the
// working directory and then in the user config directory; a missing file is
// not an error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		return v, nil
	}

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "ncp2pt5"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}
	return v, nil
}

// Load reads and validates the configuration.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (cfg *Config) Validate() error {
	if !strings.HasPrefix(cfg.Output.Extension, ".") || len(cfg.Output.Extension) < 2 {
		return errors.Newf("config: output.extension must start with a dot: %q",
			cfg.Output.Extension)
	}
	if cfg.Convert.Workers < 1 {
		return errors.Newf("config: convert.workers must be >= 1: %d", cfg.Convert.Workers)
	}
	if cfg.Preview.Scale <= 0 {
		return errors.Newf("config: preview.scale must be > 0: %g", cfg.Preview.Scale)
	}
	if cfg.Preview.Size < 100 {
		return errors.Newf("config: preview.size must be >= 100: %d", cfg.Preview.Size)
	}
	if cfg.Watch.DebounceMS < 0 {
		return errors.Newf("config: watch.debounce_ms must be >= 0: %d", cfg.Watch.DebounceMS)
	}
	return nil
}

// Marshal returns cfg in TOML form.
func (cfg *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// Write writes cfg to path as TOML. An existing file is not overwritten
// unless force is set.
func (cfg *Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(errors.Newf("config file %s already exists", path),
				"use --force to overwrite it")
		}
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
