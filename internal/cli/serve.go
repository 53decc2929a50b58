package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"docvet/internal/handler"
	"docvet/internal/logger"
	"docvet/internal/router"
	"docvet/internal/service"
)

// shutdownGrace bounds how long in-flight requests may finish after a signal.
const shutdownGrace = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Long: `Starts an HTTP server exposing document validation, registered kinds,
and stored run history under /api/v1, plus /healthz, /readyz and /metrics.
When auth.jwt_secret is set every /api/v1 request needs a bearer token
minted with "docvet token".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if addr != "" {
				cfg.Server.Port = addr
			}
			log := logger.For(logger.ComponentServer)

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.Server.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			opts := router.Options{CORSOrigins: cfg.Server.CORSOrigins}
			if cfg.Auth.Enabled() {
				opts.AuthService = service.NewAuthService(cfg.Auth)
			} else {
				log.Warn("auth.jwt_secret is not set; the API is open")
			}
			engine := router.Setup(opts,
				handler.NewValidationHandler(a.svc, cfg.Server.MaxBodyBytes),
				handler.NewRunHandler(a.svc),
				handler.NewHealthHandler(a.runRepo),
			)

			srv := &http.Server{
				Addr:         cfg.Server.Port,
				Handler:      engine,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Infow("server starting", "addr", srv.Addr, "kinds", len(a.registry.All()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fail(fmt.Errorf("server failed: %w", err))
			case <-ctx.Done():
			}

			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fail(fmt.Errorf("server shutdown: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.port)")
	return cmd
}
