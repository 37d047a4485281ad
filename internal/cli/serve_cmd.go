package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var exportDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roadmap pages on a local address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !cmd.Flags().Changed("addr") {
				addr = app.Config.Serve.Addr
			}

			if exportDir != "" {
				exp := newExporter(app, exportDir, render.ExpandDefault)
				if _, err := exp.Export(ctx); err != nil {
					return err
				}
				unwatch := exp.Watch(ctx)
				defer unwatch()
			}

			start, _ := app.Config.Start()
			srv := web.NewServer(app.Progress, app.Renderer, web.Options{
				StartDate: start,
				Logger:    app.Logger,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", app.Progress.Roadmap().Title, addr)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default 127.0.0.1:8080)")
	cmd.Flags().StringVar(&exportDir, "export", "", "Also keep a static export current in this directory")
	return cmd
}
