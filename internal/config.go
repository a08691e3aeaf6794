package internal

import (
	"errors"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/modemfind/internal/sysfs"
	"github.com/starford/modemfind/internal/udev"
)

// Output formats.
const (
	FormatEnv   = "env"
	FormatPlain = "plain"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig
	Discovery DiscoveryConfig
	Query     QueryConfig
	Watch     WatchConfig
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.Query.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level
	Format   string
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(FormatEnv, FormatPlain)),
	)
}

// DiscoveryConfig describes where to search and what to look for.
//
// Model names a catalog entry. VendorID and ModelID, when both set, describe
// an ad hoc model and take precedence over Model.
type DiscoveryConfig struct {
	Root     string
	Filters  []string
	Depth    int
	Model    string
	VendorID string
	ModelID  string
	Catalog  string
}

// Validate validates the discovery configuration.
func (c *DiscoveryConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Depth, validation.Min(0)),
	); err != nil {
		return err
	}
	if (c.VendorID == "") != (c.ModelID == "") {
		return errors.New("discovery: vendor id and model id must be set together")
	}
	if c.Model == "" && c.VendorID == "" {
		return errors.New("discovery: a model or a vendor/model id pair is required")
	}
	return nil
}

// AdHoc reports whether the target is given by raw IDs.
func (c *DiscoveryConfig) AdHoc() bool {
	return c.VendorID != "" && c.ModelID != ""
}

// QueryConfig configures the property source command.
type QueryConfig struct {
	Command []string
	Timeout time.Duration
}

// Validate validates the query configuration.
func (c *QueryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Command, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// WatchConfig configures hotplug watching.
type WatchConfig struct {
	Dir      string
	Patterns []string
	Debounce time.Duration
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Patterns, validation.Required),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
			Format:   FormatEnv,
		},
		Discovery: DiscoveryConfig{
			Root:    "/sys/bus/usb/devices",
			Filters: []string{"dev", "ttyUSB"},
			Depth:   sysfs.DefaultDepth,
			Model:   "SIM7600",
		},
		Query: QueryConfig{
			Command: append([]string(nil), udev.DefaultTemplate...),
		},
		Watch: WatchConfig{
			Dir:      "/dev",
			Patterns: []string{"ttyUSB*", "ttyACM*"},
			Debounce: 500 * time.Millisecond,
		},
	}
}
