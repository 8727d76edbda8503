package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/httpapi"
)

func newServeCmd(c *cli) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve audits over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := c.logger

			d, err := wire(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			api := httpapi.NewServer(d.svc, httpapi.ServerOptions{
				Renderers:     d.renderers,
				DefaultFormat: cfg.Report.Format,
				Logger:        logger,
			})
			opts := httpapi.RouterOptions{}
			if cfg.HTTP.APIToken != "" {
				opts.AuthMiddleware = httpapi.NewTokenAuthMiddleware(cfg.HTTP.APIToken)
			} else {
				logger.Warn("AUDIT_API_TOKEN not set; audit endpoints are unauthenticated")
			}

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           httpapi.NewRouterWithOptions(api, opts),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("api listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from PORT)")
	return cmd
}
