// Package config loads cdoc settings from .cdoc.yml, CDOC_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/cdoc/internal/extractor"
)

// DefaultName is the config file looked up in the working directory when
// no explicit path is given.
const DefaultName = ".cdoc"

// Config holds the settings shared by the cdoc commands.
type Config struct {
	// Format is the output encoding: text, json or yaml.
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text txt json yaml yml"`
	// Output is the output file, or "-" for stdout.
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
	// Include selects files when walking directories (doublestar patterns).
	Include []string `mapstructure:"include" yaml:"include" validate:"dive,required"`
	// Exclude skips files and directories (doublestar patterns).
	Exclude []string `mapstructure:"exclude" yaml:"exclude" validate:"dive,required"`
	// Workers bounds concurrent parses; 0 means one per CPU.
	Workers  int    `mapstructure:"workers" yaml:"workers" validate:"gte=0,lte=256"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn warning error disabled off"`
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"format":    "format",
	"output":    "output",
	"include":   "include",
	"exclude":   "exclude",
	"workers":   "workers",
	"log_level": "log-level",
}

var validate = validator.New()

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:   "text",
		Output:   "-",
		Include:  extractor.DefaultInclude,
		Workers:  0,
		LogLevel: "warn",
	}
}

// Load reads the config file at path, or .cdoc.yml in the working directory
// when path is empty, then applies environment variables and any changed
// flags from fs. A missing default config file is not an error.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("format", def.Format)
	v.SetDefault("output", def.Output)
	v.SetDefault("include", def.Include)
	v.SetDefault("exclude", def.Exclude)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("CDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if fs != nil {
		for key, name := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
