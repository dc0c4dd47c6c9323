package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/callminder/callminder/internal/calendar"
	"github.com/callminder/callminder/internal/config"
	"github.com/callminder/callminder/internal/dispatch"
	"github.com/callminder/callminder/internal/instrumentation"
	"github.com/callminder/callminder/internal/logging"
	"github.com/callminder/callminder/internal/server"
	"github.com/callminder/callminder/internal/store"
	"github.com/callminder/callminder/internal/telephony"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		httpAddr    string
		metricsAddr string
		envFile     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder HTTP service",
		Long: `Starts the HTTP service: the scheduler-facing trigger endpoint, the
voice prompt callback, the calendar preview and phone update endpoints,
plus health probes and a dedicated metrics listener.

Configuration is read from the environment (optionally an env file).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			} else {
				// Best-effort default; a missing .env is fine.
				_ = godotenv.Load()
			}

			cfg := config.FromEnv()
			if debugMode {
				cfg.Debug = true
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (default \":8080\")")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listen address (default \":9090\")")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an env file to load before reading configuration")

	return cmd
}

func runServe(cfg config.Config) error {
	logging.Setup(cfg.Debug)
	logger := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("store close failed", logging.Err(err))
		}
	}()

	calendarSvc := calendar.NewService(calendar.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
	})

	caller := telephony.NewClient(telephony.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioPhoneNumber,
		SiteURL:    cfg.SiteURL,
	})

	dispatcher := dispatch.New(st, calendarSvc, caller, dispatch.Options{
		Lookahead: cfg.Lookahead,
		Metrics:   provider.Metrics(),
		Logger:    logger,
	})

	apiServer := server.New(server.Config{
		CronSecret:    cfg.CronSecret,
		Runner:        dispatcher,
		Store:         st,
		Events:        calendarSvc,
		PreviewWindow: config.DefaultPreviewWindow,
		Metrics:       provider.Metrics(),
		Logger:        logger,
	})

	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server stopped with error: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}

	return nil
}
