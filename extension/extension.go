// Package extension provides the Forge extension adapter for the billing
// engine.
//
// It implements the forge.Extension interface to integrate the engine
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.billing" or "billing" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	billing "github.com/xraph/billing"
	"github.com/xraph/billing/gateway"
	"github.com/xraph/billing/store"
	"github.com/xraph/billing/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "billing"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Scheduled invoice charging engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the billing engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *billing.Engine
	store      store.Store
	gateway    gateway.Gateway
	engineOpts []billing.Option
}

// New creates a new billing Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying billing engine.
// This is nil until Register is called.
func (e *Extension) Engine() *billing.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the billing engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// A gateway must be wired explicitly; charging real money through an
	// implicit default would be a misconfiguration.
	if e.gateway == nil {
		return errors.New("billing: no payment gateway configured; use extension.WithGateway")
	}

	opts := e.buildEngineOpts()

	eng := billing.New(e.store, e.gateway, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*billing.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("billing: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("billing: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs billing.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []billing.Option {
	opts := make([]billing.Option, 0, len(e.engineOpts)+1)

	if e.config.RunInterval > 0 {
		opts = append(opts, billing.WithRunInterval(e.config.RunInterval))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("billing: configuration is required but not found in config files; " +
				"ensure 'extensions.billing' or 'billing' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("billing: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("run_interval", e.config.RunInterval),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.billing" first (namespaced pattern).
	if cm.IsSet("extensions.billing") {
		if err := cm.Bind("extensions.billing", &cfg); err == nil {
			e.Logger().Debug("billing: loaded config from file",
				forge.F("key", "extensions.billing"),
			)
			return cfg, true
		}
		e.Logger().Warn("billing: failed to bind extensions.billing config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "billing" key.
	if cm.IsSet("billing") {
		if err := cm.Bind("billing", &cfg); err == nil {
			e.Logger().Debug("billing: loaded config from file",
				forge.F("key", "billing"),
			)
			return cfg, true
		}
		e.Logger().Warn("billing: failed to bind billing config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.RunInterval == 0 {
		cfg.RunInterval = defaults.RunInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// Duration fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.RunInterval == 0 && programmaticConfig.RunInterval != 0 {
		yamlConfig.RunInterval = programmaticConfig.RunInterval
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
