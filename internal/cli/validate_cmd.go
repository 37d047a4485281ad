package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/content"
	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "validate [file]",
		Short:       "Check roadmap content against the schema and structural rules",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConnect: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Config.ContentPath
			if len(args) == 1 {
				path = args[0]
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading content: %w", err)
			}
			format := content.FormatFromPath(path)

			schemaErrs := content.ValidateSchema(data, format)
			var structErrs []error
			if r, err := content.Parse(data, format); err != nil {
				structErrs = []error{err}
			} else {
				structErrs = content.Validate(r)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidation(path, schemaErrs, structErrs))
			if n := len(schemaErrs) + len(structErrs); n > 0 {
				return fmt.Errorf("%s: %d problem(s) found", path, n)
			}
			return nil
		},
	}
}
