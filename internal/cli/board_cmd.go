package cli

import (
	"errors"

	"github.com/alexanderramin/roadmap/internal/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive progress board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("board needs an interactive terminal")
			}
			ctx := cmd.Context()

			if exportDir != "" {
				exp := newExporter(app, exportDir, render.ExpandDefault)
				if _, err := exp.Export(ctx); err != nil {
					return err
				}
				unwatch := exp.Watch(ctx)
				defer unwatch()
			}

			m := newBoardModel(ctx, app.Progress)
			defer m.close()

			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&exportDir, "export", "", "Keep a static export current in this directory")
	return cmd
}
