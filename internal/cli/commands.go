package cli

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/domain/srs"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newNewCommand(a *app) *cobra.Command {
	var now string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print a fresh item record, due immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			item := domain.NewItem(at)
			a.log.Debug("item created", "item_id", item.ID)
			return writeJSON(cmd.OutOrStdout(), newItemRecord(item))
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "creation time, RFC3339 (default: current time)")
	return cmd
}

func newReviewCommand(a *app) *cobra.Command {
	var (
		score        float64
		responseTime time.Duration
		confidence   int
		now          string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Apply one review to the item record read from stdin",
		Long: `Apply one review to the item record read from stdin and print the
updated record, including its next review time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			item, err := readItem(cmd.InOrStdin())
			if err != nil {
				return err
			}
			obs, err := domain.NewReviewObservation(score, responseTime, confidence)
			if err != nil {
				return err
			}

			adjusted, err := a.service.AdjustScore(obs)
			if err != nil {
				return err
			}
			next, err := a.service.CalculateNextReview(item.State, obs, at)
			if err != nil {
				return err
			}
			item.State = next

			a.log.Info("review recorded",
				"item_id", item.ID,
				"adjusted_score", adjusted,
				"interval", next.Interval,
				"repetitions", next.Repetitions)
			return writeJSON(cmd.OutOrStdout(), newItemRecord(item))
		},
	}

	cmd.Flags().Float64Var(&score, "score", 0, "raw quality score, 0-5")
	cmd.Flags().DurationVar(&responseTime, "response-time", 0, "time taken to answer, e.g. 4s")
	cmd.Flags().IntVar(&confidence, "confidence", domain.MaxConfidence, "self-reported confidence, 1-5")
	cmd.Flags().StringVar(&now, "now", "", "review time, RFC3339 (default: current time)")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func newPostponeCommand(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "postpone",
		Short: "Push the next review of the item record read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := readItem(cmd.InOrStdin())
			if err != nil {
				return err
			}
			next, err := a.service.PostponeReview(item.State, days)
			if err != nil {
				return err
			}
			item.State = next

			a.log.Info("review postponed", "item_id", item.ID, "days", days, "interval", next.Interval)
			return writeJSON(cmd.OutOrStdout(), newItemRecord(item))
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "days to postpone by")
	return cmd
}

func newDueCommand(a *app) *cobra.Command {
	var (
		horizon int
		now     string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List items due now, or due within a horizon",
		Long: `List the items read from stdin that are due now. With a horizon, list
the items that become due after now and within that many days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			items, err := readItems(cmd.InOrStdin())
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("horizon") {
				horizon = a.cfg.Scheduler.DueHorizonDays
			}

			var due []domain.Item
			if horizon == 0 {
				due = srs.DueNow(items, at)
			} else {
				due, err = srs.DueWithin(items, at, horizon)
				if err != nil {
					return err
				}
			}
			a.log.Info("due items selected", "total", len(items), "due", len(due), "horizon_days", horizon)

			records := make([]ItemRecord, len(due))
			for i, item := range due {
				records[i] = newItemRecord(item)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNext Review\tInterval\tReps\tDiff")
			fmt.Fprintln(w, "--\t-----------\t--------\t----\t----")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n",
					r.ID, r.NextReviewAt.Format(time.RFC3339), r.Interval, r.Repetitions, r.Difficulty)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 0, "look-ahead in days; 0 lists items due now (default from config)")
	cmd.Flags().StringVar(&now, "now", "", "reference time, RFC3339 (default: current time)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print item records as JSON")
	return cmd
}

func newBalanceCommand(a *app) *cobra.Command {
	var (
		maxPerDay    int
		maxDeferDays int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Spread the item records read from stdin across days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-per-day") {
				maxPerDay = a.cfg.Scheduler.MaxReviewsPerDay
			}
			if !cmd.Flags().Changed("max-defer-days") {
				maxDeferDays = a.cfg.Scheduler.MaxDeferDays
			}

			items, err := readItems(cmd.InOrStdin())
			if err != nil {
				return err
			}
			balancer, err := srs.NewLoadBalancer(maxPerDay, maxDeferDays)
			if err != nil {
				return err
			}

			entries := balancer.Balance(items)
			overflow := 0
			for _, e := range entries {
				if e.Overflow {
					overflow++
				}
			}
			a.log.Info("schedule balanced",
				"items", len(entries),
				"max_per_day", maxPerDay,
				"max_defer_days", maxDeferDays,
				"overflow", overflow)
			if overflow > 0 {
				a.log.Warn("deferral window full, some days exceed capacity", "overflow", overflow)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Date\tItem\tDue\tDeferred\tOverflow")
			fmt.Fprintln(w, "----\t----\t---\t--------\t--------")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n",
					e.Date.Format(dateLayout), e.ItemID, e.NaturalDate.Format(dateLayout), e.DeferredDays(), e.Overflow)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&maxPerDay, "max-per-day", 0, "review capacity per day (default from config)")
	cmd.Flags().IntVar(&maxDeferDays, "max-defer-days", 0, "how far an item may be pushed past its due day (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print schedule entries as JSON")
	return cmd
}

// forecastReport is the JSON output of the forecast command.
type forecastReport struct {
	ItemID          string                  `json:"item_id"`
	HalfLifeDays    float64                 `json:"half_life_days"`
	RetentionNow    float64                 `json:"retention_now"`
	Target          float64                 `json:"target"`
	DaysUntilTarget float64                 `json:"days_until_target"`
	TargetReachedAt time.Time               `json:"target_reached_at"`
	Points          []domain.RetentionPoint `json:"points"`
}

func newForecastCommand(a *app) *cobra.Command {
	var (
		days   int
		target float64
		now    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the retention curve of the item record read from stdin",
		Long: `Project the retention curve of the item record read from stdin, along
with its retention now and the day it falls to the target retention.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target <= 0 || target >= 1 {
				return fmt.Errorf("invalid --target %v: must be between 0 and 1", target)
			}
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			item, err := readItem(cmd.InOrStdin())
			if err != nil {
				return err
			}
			points, err := srs.PredictRetention(item.State, days)
			if err != nil {
				return err
			}

			untilTarget := srs.DaysUntilRetention(item.State, target)
			report := forecastReport{
				ItemID:          item.ID.String(),
				HalfLifeDays:    srs.HalfLife(item.State),
				RetentionNow:    srs.RetentionAt(item.State, at),
				Target:          target,
				DaysUntilTarget: untilTarget,
				TargetReachedAt: addDays(item.State.LastReview, untilTarget),
				Points:          points,
			}
			a.log.Debug("retention projected",
				"item_id", item.ID,
				"days", days,
				"half_life_days", report.HalfLifeDays,
				"retention_now", report.RetentionNow)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Retention now:\t%.3f\n", report.RetentionNow)
			fmt.Fprintf(w, "Falls to %.2f:\t%s (%.1f days after last review)\n",
				target, report.TargetReachedAt.Format(dateLayout), untilTarget)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Day\tRetention")
			fmt.Fprintln(w, "---\t---------")
			for _, p := range points {
				fmt.Fprintf(w, "%d\t%.3f\n", p.Day, p.Retention)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "days ahead to project")
	cmd.Flags().Float64Var(&target, "target", 0.9, "retention threshold to report the crossing day for, between 0 and 1")
	cmd.Flags().StringVar(&now, "now", "", "reference time for current retention, RFC3339 (default: current time)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the forecast as JSON")
	return cmd
}

// addDays adds a fractional number of days to t. Whole days go through
// AddDate so long horizons cannot overflow a time.Duration.
func addDays(t time.Time, days float64) time.Time {
	whole := math.Floor(days)
	frac := days - whole
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour)))
}
