package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(app *App) *cobra.Command {
	var semester, format string
	var all bool
	cmd := &cobra.Command{
		Use:   "export [CODE]",
		Short: "Export a course breakdown or the full summary to a file",
		Example: `  gradebook export CHM343 --format csv
  gradebook export --all --format pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = app.Config.Export.DefaultFormat
			}
			var path string
			var err error
			switch {
			case all:
				path, err = app.Exports.ExportAll(cmd.Context(), semester, format)
			case len(args) == 1:
				path, err = app.Exports.ExportCourse(cmd.Context(), args[0], semester, format)
			default:
				return cmd.Help()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate or filter")
	cmd.Flags().StringVar(&format, "format", "", "txt, csv or pdf (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "export the multi-course summary instead of one course")
	return cmd
}
