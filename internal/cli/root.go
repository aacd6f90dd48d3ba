package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/config"
	"github.com/phrazzld/scry-scheduler/internal/domain/srs"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand once the root command's
// pre-run hook has loaded configuration.
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	log     *slog.Logger
	service srs.Service
}

// NewRootCommand builds the sm2plus command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sm2plus",
		Short: "An adaptive spaced repetition scheduler",
		Long: `sm2plus schedules reviews with an adaptive SM-2 variant.

Item records are read as JSON from stdin and results are written to stdout.
Logs go to stderr.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newNewCommand(a),
		newReviewCommand(a),
		newPostponeCommand(a),
		newDueCommand(a),
		newBalanceCommand(a),
		newForecastCommand(a),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.Setup(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	params, err := srs.NewParams(srs.ParamsConfig{
		Mode:            srs.Mode(cfg.Scheduler.Mode),
		MaxIntervalDays: cfg.Scheduler.MaxIntervalDays,
	})
	if err != nil {
		return fmt.Errorf("failed to build scheduler params: %w", err)
	}
	service, err := srs.NewServiceWithParams(params)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.service = service

	log.Debug("configuration loaded",
		"mode", cfg.Scheduler.Mode,
		"max_interval_days", cfg.Scheduler.MaxIntervalDays,
		"max_reviews_per_day", cfg.Scheduler.MaxReviewsPerDay,
		"max_defer_days", cfg.Scheduler.MaxDeferDays)
	return nil
}

// parseNow returns the --now flag value, or the current UTC time when unset.
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", value, err)
	}
	return now, nil
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
