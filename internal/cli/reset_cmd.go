package cli

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all progress after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			done := len(app.Progress.State(ctx))

			confirmed := yes
			if !yes {
				if !app.interactive() {
					fmt.Fprintln(out, formatter.Dim("Reset cancelled: not a terminal, pass --yes to confirm."))
					return nil
				}
				ok, err := app.confirm(fmt.Sprintf("Clear progress on %d completed task(s)?", done))
				if err != nil {
					return err
				}
				confirmed = ok
			}

			reset, err := app.Progress.Reset(ctx, func() bool { return confirmed })
			if err != nil {
				return err
			}
			if !reset {
				fmt.Fprintln(out, formatter.Dim("Reset cancelled."))
				return nil
			}
			fmt.Fprintln(out, formatter.StyleGreen.Render("✔")+fmt.Sprintf(" Progress reset, %d task(s) cleared.", done))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
