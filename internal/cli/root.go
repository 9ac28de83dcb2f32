// Package cli wires the gradebook services into a cobra command tree. All
// rendering happens here; services return structured data and typed errors,
// and the exit code is derived from the error when a command fails.
package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/astanton/gradebook/internal/service"
	"github.com/astanton/gradebook/pkg/config"
)

// Version is stamped at build time.
var Version = "dev"

// App bundles the services the commands run against.
type App struct {
	Config      *config.Config
	Courses     *service.CourseService
	Categories  *service.CategoryService
	Assignments *service.AssignmentService
	Reports     *service.ReportService
	Exports     *service.ExportService
	Backups     *service.BackupService

	// CloseDB releases the database connection. Restore replaces the
	// database file and must run with the connection closed.
	CloseDB func() error
}

// NewRootCommand builds the full command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradebook",
		Short:         "Track courses, weighted categories and assignment scores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCommand(app),
		newListCommand(app),
		newShowCommand(app),
		newViewCommand(app),
		newEditCommand(app),
		newMoveCommand(app),
		newRemoveCommand(app),
		newNormalizeCommand(app),
		newExportCommand(app),
		newBackupCommand(app),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gradebook version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gradebook", Version)
		},
	}
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func formatGrade(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
