package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

// serviceSource adapts a ProgressService to the exporter's source.
type serviceSource struct {
	svc service.ProgressService
}

func (s serviceSource) Snapshot() progress.State {
	return s.svc.State(context.Background())
}

func (s serviceSource) Subscribe(fn progress.Listener) func() {
	return s.svc.Subscribe(fn)
}

func newExporter(app *App, dir string, expand render.Expand) *render.Exporter {
	start, _ := app.Config.Start()
	opts := render.Options{Expand: expand, StartDate: start}
	return render.NewExporter(dir, app.Renderer, app.Progress.Roadmap(), serviceSource{app.Progress}, opts, app.Logger)
}

func newExportCmd(app *App) *cobra.Command {
	var dir string
	var expand string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every page as static HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dir") {
				dir = app.Config.Export.Dir
			}
			exp := newExporter(app, dir, render.ParseExpand(expand))

			if app.interactive() {
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Exporting pages")
				defer stop()
			}
			written, err := exp.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d page(s) to %s\n",
				formatter.StyleGreen.Render("✔"), len(written), exp.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&expand, "expand", "", "Open sections: all or none (default: first week)")
	return cmd
}
