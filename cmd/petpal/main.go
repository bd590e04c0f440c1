package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/petpal/internal/application"
	"github.com/example/petpal/internal/catalog"
	"github.com/example/petpal/internal/config"
	httptransport "github.com/example/petpal/internal/http"
	"github.com/example/petpal/internal/logging"
	"github.com/example/petpal/internal/metrics"
	"github.com/example/petpal/internal/persistence"
	"github.com/example/petpal/internal/persistence/memory"
	"github.com/example/petpal/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:          "petpal",
		Short:        "PetPal pet sitting marketplace API",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().String("storage-backend", "", "storage backend: sqlite or memory")
	root.PersistentFlags().String("sqlite-dsn", "", "sqlite database DSN")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	_ = v.BindPFlag("storage_backend", root.PersistentFlags().Lookup("storage-backend"))
	_ = v.BindPFlag("sqlite_dsn", root.PersistentFlags().Lookup("sqlite-dsn"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	load := func() (config.Config, *slog.Logger, error) {
		cfg, err := config.LoadWith(v, configFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logging.New(out, level), nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, logger)
		},
	}
	serveCmd.Flags().Int("port", 0, "HTTP port")
	serveCmd.Flags().String("catalog", "", "sitter catalog YAML file")
	_ = v.BindPFlag("http_port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("sitter_catalog", serveCmd.Flags().Lookup("catalog"))

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored sitters with a catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				cfg.SitterCatalog = file
			}
			count, err := runSeed(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sitters\n", count)
			return nil
		},
	}
	seedCmd.Flags().StringP("file", "f", "", "sitter catalog YAML file (default: bundled catalog)")

	root.AddCommand(serveCmd, seedCmd)
	return root
}

// openBackend returns the configured store and a function releasing it.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Backend, func(), error) {
	if cfg.StorageBackend == config.BackendMemory {
		return memory.New(), func() {}, nil
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closer := func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}
	if err := storage.Migrate(ctx); err != nil {
		closer()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	return storage, closer, nil
}

func newController(ctx context.Context, cfg config.Config, backend persistence.Backend, recorder metrics.Recorder, logger *slog.Logger) *application.Controller {
	bridge := persistence.NewBridge(backend, logger, recorder)
	return application.NewController(ctx, bridge, application.Options{
		Logger:         logger,
		Metrics:        recorder,
		Catalog:        catalog.Source(cfg.SitterCatalog),
		SearchCacheTTL: cfg.SearchCacheTTL,
	})
}

func newHandler(ctx context.Context, cfg config.Config, backend persistence.Backend, logger *slog.Logger) http.Handler {
	recorder := metrics.NewPrometheusRecorder(nil)
	controller := newController(ctx, cfg, backend, recorder, logger)
	return httptransport.NewControllerRouter(controller, recorder.Handler(), logger)
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	backend, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		return err
	}
	defer closeBackend()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newHandler(ctx, cfg, backend, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("petpal API listening", "addr", server.Addr, "storage_backend", cfg.StorageBackend)
	return serve(ctx, server, logger)
}

// serve runs server until ctx is cancelled or the listener fails. It returns
// once the shutdown watcher has finished.
func serve(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	err := server.ListenAndServe()
	close(done)
	<-stopped
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		return err
	}
	return nil
}

func runSeed(ctx context.Context, cfg config.Config, logger *slog.Logger) (int, error) {
	backend, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer closeBackend()

	controller := newController(ctx, cfg, backend, metrics.NoopRecorder{}, logger)
	return controller.SeedSitters(ctx)
}
