package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// DefaultFile is loaded from the working directory when no --config is given
const DefaultFile = "ratioflow.toml"

// Default output names, matching the orientation
const (
	DefaultOutput        = "optimised_flow.lp"
	DefaultReverseOutput = "optimised_flow_rev.lp"
)

var validate = validator.New()

// Config holds every setting of a ratioflow run
type Config struct {
	Graph          string      `toml:"graph" validate:"required"`
	Ratios         string      `toml:"ratios" validate:"required"`
	Output         string      `toml:"output"`
	Reverse        bool        `toml:"reverse"`
	Naming         string      `toml:"naming" validate:"oneof=compact delimited"`
	AllowSelfLoops bool        `toml:"allow_self_loops"`
	DBPath         string      `toml:"db" validate:"required"`
	LogLevel       string      `toml:"log_level" validate:"oneof=debug info warn error"`
	Watch          WatchConfig `toml:"watch"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as "500ms", "2s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Naming:   "compact",
		DBPath:   ".ratioflow.db",
		LogLevel: "info",
		Watch: WatchConfig{
			Debounce: Duration{500 * time.Millisecond},
		},
	}
}

// Load reads path on top of Default(). An empty path loads DefaultFile if it
// exists and the defaults otherwise. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// OutputPath returns the configured output, or the default for the orientation
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	if c.Reverse {
		return DefaultReverseOutput
	}
	return DefaultOutput
}

// Validate checks the settings every command needs
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, "Graph", "Ratios"); err != nil {
		return formatValidationError(err)
	}
	if c.Watch.Debounce.Duration <= 0 {
		return errors.New("watch.debounce: must be positive")
	}
	return nil
}

// ValidateInputs additionally requires both input paths
func (c *Config) ValidateInputs() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.StructPartial(c, "Graph", "Ratios"); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to messages naming the TOML key
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := tomlKey(e.StructField())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not one of [%s]", field, e.Value(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func tomlKey(field string) string {
	switch field {
	case "DBPath":
		return "db"
	case "LogLevel":
		return "log_level"
	default:
		return strings.ToLower(field)
	}
}
