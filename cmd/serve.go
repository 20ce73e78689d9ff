package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fresh/internal/api"
	"fresh/internal/auth"
	"fresh/internal/database"
	"fresh/internal/metrics"
	"fresh/internal/monitoring"
	"fresh/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and metrics servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(flags, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "Insert the sample catalog and shared pantry into empty tables")
	return cmd
}

func serve(flags *globalFlags, seed bool) error {
	cfg, logger, err := flags.setup()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	db, store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if seed {
		if err := database.Seed(db, time.Now()); err != nil {
			return err
		}
	}

	collector := metrics.NewCollector()
	server := api.NewAPI(api.Options{
		Store:    store,
		Sessions: planner.NewSessions(randSource(cfg.Planner.Seed)),
		Tokens:   auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Metrics:  collector,
		Monitor:  monitoring.NewMonitor(),
		Logger:   logger,
	})

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: server.MetricsRouter(),
	}

	go func() {
		logger.Info("Starting metrics server", slog.Int("port", cfg.Server.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", slog.String("error", err.Error()))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", slog.Int("port", cfg.Server.Port))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve API: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("Shutting down servers", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("API server shutdown error", slog.String("error", err.Error()))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}
	return nil
}
