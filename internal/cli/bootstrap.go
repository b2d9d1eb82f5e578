// Package cli wires configuration, storage and the ledger behind the
// financas command line.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"financas/internal/amqp"
	"financas/internal/backend"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from path (or $FINANCAS_CONFIG)
// and the environment, then validates it.
func LoadAndValidateConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds what every command needs once the configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *applog.Logger
	ledger  *services.Ledger
	closers []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions, component string) (*app, error) {
	cfg, err := LoadAndValidateConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.LoggerConfig(component)
	logCfg.Output = cmd.ErrOrStderr()
	logger := applog.New(logCfg)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, result.Cleanup)

	ledgerOpts := []services.Option{services.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WarnContext(ctx, "AMQP unavailable, change notifications disabled", applog.FieldError, err)
		} else {
			ledgerOpts = append(ledgerOpts, services.WithNotifier(client))
			a.closers = append(a.closers, client.Close)
		}
	}
	a.ledger = services.NewLedger(result.Store, ledgerOpts...)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Cleanup failed", applog.FieldError, err)
		}
	}
}

// withApp adapts fn into a cobra RunE that builds and closes the app.
func withApp(opts *rootOptions, component string, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, opts, component)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
