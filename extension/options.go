package extension

import (
	"time"

	billing "github.com/xraph/billing"
	"github.com/xraph/billing/gateway"
	"github.com/xraph/billing/plugin"
	"github.com/xraph/billing/store"
)

// Option configures the billing Forge extension.
type Option func(*Extension)

// WithStore sets the store for the billing engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGateway sets the payment gateway for the billing engine.
func WithGateway(g gateway.Gateway) Option {
	return func(e *Extension) {
		e.gateway = g
	}
}

// WithEngineOption passes a billing.Option through to the underlying engine.
func WithEngineOption(opt billing.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a billing plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, billing.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRunInterval sets how frequently the engine sweeps pending invoices.
func WithRunInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.RunInterval = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
