package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`
}

type OutputConfig struct {
	// Dir is where composed project trees are materialized.
	Dir string `mapstructure:"dir"`
	// Overwrite allows writing into a non-empty directory.
	Overwrite bool `mapstructure:"overwrite"`
	// Manifest controls whether a generation manifest JSON is written
	// next to the project tree.
	Manifest bool `mapstructure:"manifest"`
}

type TracingConfig struct {
	// Endpoint is an OTLP gRPC collector address. Empty disables export.
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Output.Dir == "" {
		warnings = append(warnings, "output.dir is empty, generation will use the current directory")
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			warnings = append(warnings, fmt.Sprintf("log level '%s' is not one of debug/info/warn/error", c.Log.Level))
		}
	}

	if c.Tracing.Endpoint == "" && c.Tracing.Insecure {
		warnings = append(warnings, "tracing.insecure is set but tracing.endpoint is empty")
	}

	return warnings
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("QUILT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.manifest", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Dir: ".", Manifest: true},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}
