package extension

import "time"

// Config holds the billing extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.billing" or "billing" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// RunInterval is how frequently the engine sweeps pending invoices in
	// the background (default: 24h). Zero disables the background worker.
	RunInterval time.Duration `json:"run_interval" mapstructure:"run_interval" yaml:"run_interval"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RunInterval: 24 * time.Hour,
	}
}
