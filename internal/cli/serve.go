package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apihttp "financas/internal/http"
	applog "financas/internal/log"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, applog.ComponentHTTP, func(cmd *cobra.Command, a *app, _ []string) error {
			if addr == "" {
				addr = ":" + a.cfg.Port
			}
			srv := apihttp.NewServer(addr, a.ledger, a.logger, a.cfg.MetricsEnabled)

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Starting HTTP server",
					"addr", addr,
					"backend", a.cfg.DataBackend,
					"metrics", a.cfg.MetricsEnabled)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			a.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :$PORT)")
	return cmd
}
