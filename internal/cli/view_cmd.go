package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWeeksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "List weeks and days with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := app.Progress.Overview(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeeks(app.Progress.Roadmap(), ov))
			return nil
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the week, day and task tree with completion marks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := app.Progress.Roadmap()
			if week < 0 || week > len(r.Weeks) {
				return fmt.Errorf("week %d out of range (1-%d)", week, len(r.Weeks))
			}
			state := app.Progress.State(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(r, state, week-1))
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only show this week (1-based)")
	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day [wN-dM]",
		Short: "Show one day's tasks with their guidance (default: first day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			day, err := app.Progress.Day(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(day, dayDate(app, day.Week, day.Index)))
			return nil
		},
	}
}

// dayDate is the calendar date of a day when a start date is configured.
func dayDate(app *App, week, day int) string {
	start, ok := app.Config.Start()
	if !ok {
		return ""
	}
	return start.AddDate(0, 0, 7*week+day).Format(time.DateOnly)
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show overall and per-week progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			savedAt, _ := app.Progress.SavedAt(ctx)
			fmt.Fprintln(cmd.OutOrStdout(),
				formatter.FormatStatus(app.Progress.Overview(ctx), app.Progress.Stale(ctx), savedAt))
			return nil
		},
	}
}
