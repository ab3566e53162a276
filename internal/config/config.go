// Package config loads the heartaxis service configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultListen          = ":8080"
	defaultAdminListen     = "localhost:8081"
	defaultDBPath          = "heartaxis.db"
	defaultPlotExtent      = 4.0
	defaultPlotVectorScale = 2.0
	defaultPlotSizeInches  = 6.0
	defaultResultLimit     = 500
	defaultCheckTolerance  = 1e-2
	defaultShutdownTimeout = 5 * time.Second

	maxFileSize = 1 * 1024 * 1024 // 1MB
)

// Config is the service configuration. Every field is optional; the Get*
// accessors supply defaults for anything omitted from the file.
type Config struct {
	Listen      *string `json:"listen,omitempty"`
	AdminListen *string `json:"admin_listen,omitempty"`
	DBPath      *string `json:"db_path,omitempty"`

	// Diagram params
	PlotExtent      *float64 `json:"plot_extent,omitempty"`
	PlotVectorScale *float64 `json:"plot_vector_scale,omitempty"`
	PlotSizeInches  *float64 `json:"plot_size_inches,omitempty"`

	// ResultLimit caps list endpoints; 0 means unlimited.
	ResultLimit *int `json:"result_limit,omitempty"`
	// CheckTolerance is the relative tolerance for invariant checks.
	CheckTolerance *float64 `json:"check_tolerance,omitempty"`

	ShutdownTimeout *string `json:"shutdown_timeout,omitempty"` // duration string like "5s"
}

// Empty returns a Config with all fields unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json
// extension and be under 1MB. Omitted fields keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set values are usable.
func (c *Config) Validate() error {
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	if c.DBPath != nil && *c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.PlotExtent != nil && *c.PlotExtent <= 0 {
		return fmt.Errorf("plot_extent must be positive, got %f", *c.PlotExtent)
	}
	if c.PlotVectorScale != nil && *c.PlotVectorScale <= 0 {
		return fmt.Errorf("plot_vector_scale must be positive, got %f", *c.PlotVectorScale)
	}
	if c.PlotSizeInches != nil && (*c.PlotSizeInches < 1 || *c.PlotSizeInches > 40) {
		return fmt.Errorf("plot_size_inches must be between 1 and 40, got %f", *c.PlotSizeInches)
	}
	if c.ResultLimit != nil && *c.ResultLimit < 0 {
		return fmt.Errorf("result_limit must be non-negative, got %d", *c.ResultLimit)
	}
	if c.CheckTolerance != nil && (*c.CheckTolerance <= 0 || *c.CheckTolerance >= 1) {
		return fmt.Errorf("check_tolerance must be in (0, 1), got %g", *c.CheckTolerance)
	}
	if c.ShutdownTimeout != nil && *c.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(*c.ShutdownTimeout); err != nil {
			return fmt.Errorf("invalid shutdown_timeout '%s': %w", *c.ShutdownTimeout, err)
		}
	}
	return nil
}

// GetListen returns the public listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil {
		return defaultListen
	}
	return *c.Listen
}

// GetAdminListen returns the admin listen address. An explicit empty
// string disables the admin server.
func (c *Config) GetAdminListen() string {
	if c.AdminListen == nil {
		return defaultAdminListen
	}
	return *c.AdminListen
}

// GetDBPath returns the sqlite database path or the default.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil {
		return defaultDBPath
	}
	return *c.DBPath
}

// GetPlotExtent returns the diagram half-width in lead units.
func (c *Config) GetPlotExtent() float64 {
	if c.PlotExtent == nil {
		return defaultPlotExtent
	}
	return *c.PlotExtent
}

// GetPlotVectorScale returns the arrow scale factor.
func (c *Config) GetPlotVectorScale() float64 {
	if c.PlotVectorScale == nil {
		return defaultPlotVectorScale
	}
	return *c.PlotVectorScale
}

// GetPlotSizeInches returns the rendered image edge length.
func (c *Config) GetPlotSizeInches() float64 {
	if c.PlotSizeInches == nil {
		return defaultPlotSizeInches
	}
	return *c.PlotSizeInches
}

// GetResultLimit returns the list endpoint cap.
func (c *Config) GetResultLimit() int {
	if c.ResultLimit == nil {
		return defaultResultLimit
	}
	return *c.ResultLimit
}

// GetCheckTolerance returns the invariant check tolerance.
func (c *Config) GetCheckTolerance() float64 {
	if c.CheckTolerance == nil {
		return defaultCheckTolerance
	}
	return *c.CheckTolerance
}

// GetShutdownTimeout parses the shutdown timeout, falling back to the
// default when unset or unparseable.
func (c *Config) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == nil || *c.ShutdownTimeout == "" {
		return defaultShutdownTimeout
	}
	d, err := time.ParseDuration(*c.ShutdownTimeout)
	if err != nil {
		return defaultShutdownTimeout
	}
	return d
}
