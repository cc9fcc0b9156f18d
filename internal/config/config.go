// Package config loads CLI settings from flags, SHAREFORMS_* environment
// variables, an optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-shareforms/internal/logging"
	"github.com/goliatone/go-shareforms/pkg/failure"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SHAREFORMS"

// Keys understood by Load.
const (
	KeyNamespace    = "namespace"
	KeyModuleName   = "module_name"
	KeyOutputDir    = "output_dir"
	KeyMappingsFile = "mappings_file"
	KeyTemplatesDir = "templates_dir"
	KeyInteractive  = "interactive"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

// Config is the resolved CLI configuration.
type Config struct {
	Namespace    string    `mapstructure:"namespace"`
	ModuleName   string    `mapstructure:"module_name"`
	OutputDir    string    `mapstructure:"output_dir"`
	MappingsFile string    `mapstructure:"mappings_file"`
	TemplatesDir string    `mapstructure:"templates_dir"`
	Interactive  bool      `mapstructure:"interactive"`
	Log          LogConfig `mapstructure:"log"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load resolves the configuration from v. Flags should already be bound to
// v. configFile is optional; when set it must exist and parse.
func Load(v *viper.Viper, configFile string) (Config, error) {
	loadEnvFile(".env")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	applyDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, failure.Wrap(failure.KindUsage, failure.CodeConfigInvalid, err,
				"cannot read config file %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, failure.Wrap(failure.KindUsage, failure.CodeConfigInvalid, err, "cannot decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault(KeyNamespace, "")
	v.SetDefault(KeyModuleName, "")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyMappingsFile, "")
	v.SetDefault(KeyTemplatesDir, "")
	v.SetDefault(KeyInteractive, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// loadEnvFile loads path into the environment when present. Variables that
// are already set win.
func loadEnvFile(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

// Validate checks values that do not depend on the positional arguments.
func (c Config) Validate() error {
	var problems []string
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, "log.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		problems = append(problems, "log.format must be console or json")
	}
	if c.MappingsFile != "" {
		if info, err := os.Stat(c.MappingsFile); err != nil || info.IsDir() {
			problems = append(problems, "mappings file not found: "+c.MappingsFile)
		}
	}
	if c.TemplatesDir != "" {
		if info, err := os.Stat(c.TemplatesDir); err != nil || !info.IsDir() {
			problems = append(problems, "templates directory not found: "+c.TemplatesDir)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return failure.Wrap(failure.KindUsage, failure.CodeConfigInvalid, errors.New(problems[0]),
		"invalid configuration").WithDetails(problems...)
}
