package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecolehub/sel/docs"
	"github.com/ecolehub/sel/internal/app"
	"github.com/ecolehub/sel/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, cleanup, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			if !skipMigrations {
				if err := database.MigrateUp(application.DB, cfg.Database.Name, log); err != nil {
					return err
				}
			}

			host := "localhost:" + cfg.Server.Port
			docs.SwaggerInfo.Host = host

			server := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      application.Handler(fmt.Sprintf("http://%s/swagger/doc.json", host), 60*time.Second),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Server starting", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}

			log.Info("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			log.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", os.Getenv("SEL_SKIP_MIGRATIONS") == "true",
		"do not apply pending migrations on start")
	return cmd
}
