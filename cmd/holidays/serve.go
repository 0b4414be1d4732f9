package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/holiday-engine/api"
)

func newServeCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP API",
		Long:    "serve opens the database, registers stored calendars and serves the holiday API until interrupted.",
		Aliases: []string{"s"},
		Example: "holidays serve -c ./holidays.yml --port 3000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.ListenPort = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := newEngine(cfg)
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.openDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			handler := api.NewHandler(e.registry, e.store, e.names, e.logger)
			handler.CacheHolidays = cfg.CacheHolidays
			if err := handler.LoadCalendars(ctx); err != nil {
				e.logger.Warn("failed to load calendars", zap.Error(err))
			}

			if cfg.WarmInterval > 0 {
				warmer := api.NewCacheWarmer(handler)
				warmer.CheckInterval = time.Duration(cfg.WarmInterval) * time.Minute
				warmer.Locales = cfg.WarmLocales
				warmer.Start()
				defer warmer.Stop()
			}

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.ListenPort),
				Handler:      api.NewRouter(handler, cfg.AllowedOrigins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				e.logger.Info("server starting",
					zap.Int("port", cfg.ListenPort),
					zap.String("db", cfg.DBPath),
					zap.String("default_locale", e.registry.DefaultLocale()),
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			e.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracePeriod())
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			e.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port (overrides listen_port)")
	return cmd
}
