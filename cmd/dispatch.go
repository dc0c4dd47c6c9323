package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/callminder/callminder/internal/calendar"
	"github.com/callminder/callminder/internal/config"
	"github.com/callminder/callminder/internal/dispatch"
	"github.com/callminder/callminder/internal/logging"
	"github.com/callminder/callminder/internal/store"
	"github.com/callminder/callminder/internal/telephony"
)

func newDispatchCmd() *cobra.Command {
	var (
		debugMode bool
		dryRun    bool
		envFile   string
		lookahead time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Run one reminder dispatch pass and print the report",
		Long: `Executes a single dispatch pass outside the HTTP service: reads
eligible users, checks their calendars, places reminder calls, and prints
the run report as JSON on stdout. Useful for cron-less setups and manual
testing.

With --dry-run, calls are skipped and reported as failures marked "dry run".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}

			cfg := config.FromEnv()
			if debugMode {
				cfg.Debug = true
			}
			if lookahead > 0 {
				cfg.Lookahead = lookahead
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runDispatch(cfg, dryRun)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Skip call placement, report what would have been called")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an env file to load before reading configuration")
	cmd.Flags().DurationVar(&lookahead, "lookahead", 0, "Event scan window (default 5m)")

	return cmd
}

func runDispatch(cfg config.Config, dryRun bool) error {
	logging.Setup(cfg.Debug)
	logger := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	var caller dispatch.Caller = telephony.NewClient(telephony.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioPhoneNumber,
		SiteURL:    cfg.SiteURL,
	})
	if dryRun {
		caller = dryRunCaller{}
	}

	dispatcher := dispatch.New(st, calendarSvc, caller, dispatch.Options{
		Lookahead: cfg.Lookahead,
		Logger:    logger,
	})

	report, err := dispatcher.RunOnce(ctx, time.Now())
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// dryRunCaller reports every call as skipped without contacting the
// telephony provider.
type dryRunCaller struct{}

func (dryRunCaller) PlaceReminderCall(ctx context.Context, toNumber, eventTitle, displayStart string) telephony.Outcome {
	return telephony.Outcome{Error: "dry run"}
}
