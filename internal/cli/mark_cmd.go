package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

type markFunc func(ctx context.Context, svc service.ProgressService, id string) error

func markDone(ctx context.Context, svc service.ProgressService, id string) error {
	return svc.SetTask(ctx, id, true)
}

func markUndo(ctx context.Context, svc service.ProgressService, id string) error {
	return svc.SetTask(ctx, id, false)
}

func markToggle(ctx context.Context, svc service.ProgressService, id string) error {
	_, err := svc.Toggle(ctx, id)
	return err
}

// newMarkCmd builds done, undo and toggle. All identifiers are resolved
// before any of them is changed.
func newMarkCmd(app *App, use, short string, mark markFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, id := range args {
				if _, err := app.Progress.Task(ctx, id); err != nil {
					return err
				}
			}

			for _, id := range args {
				if err := mark(ctx, app.Progress, id); err != nil {
					return err
				}
				tv, err := app.Progress.Task(ctx, id)
				if err != nil {
					return err
				}
				day, err := app.Progress.Day(ctx, domain.DayKey(tv.Ref.Week, tv.Ref.Day))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskChange(tv, day.Progress))
			}
			return nil
		},
	}
}
