package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot and restore the database",
	}
	cmd.AddCommand(newBackupCreateCommand(app), newBackupListCommand(app), newBackupRestoreCommand(app))
	return cmd
}

func newBackupCreateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create [NAME]",
		Short: "Snapshot the database file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			snapshot, err := app.Backups.Create(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", snapshot)
			return nil
		},
	}
}

func newBackupListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := app.Backups.List()
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots yet.")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "Name", "Size", "Created")
			for _, snapshot := range snapshots {
				table.Append([]string{
					snapshot.Name,
					fmt.Sprintf("%d B", snapshot.Size),
					snapshot.ModTime.UTC().Format("2006-01-02 15:04:05"),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newBackupRestoreCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore NAME",
		Short: "Replace the database with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the database file cannot be swapped under an open connection
			if app.CloseDB != nil {
				if err := app.CloseDB(); err != nil {
					return err
				}
			}
			if err := app.Backups.Restore(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		},
	}
}
