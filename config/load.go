package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Options control where Load looks for configuration. The file format
// follows the extension (.yaml, .yml, .toml); files without one are YAML.
type Options struct {
	// Path is the YAML file to read. Empty means DefaultPath, which may be
	// absent; an explicit path must exist.
	Path string
	// EnvFile is loaded into the process environment before binding. Empty
	// means ".env". A missing file is not an error.
	EnvFile string
}

// Load reads defaults, the optional .env file, the YAML file and the
// environment, in increasing precedence, and validates the result.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load %s", envFile)
	}

	v := viper.New()
	SetDefaults(v)
	BindSensitiveEnvVars(v)

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Defaults returns the configuration with only defaults applied
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := LoadWithViper(v)
	return cfg
}
