package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove courses, categories and assignments",
	}
	cmd.AddCommand(newRemoveCourseCommand(app), newRemoveCategoryCommand(app), newRemoveAssignmentCommand(app))
	return cmd
}

func newRemoveCourseCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "course CODE",
		Short: "Remove a course and everything filed under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Courses.Remove(cmd.Context(), args[0], semester); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed course %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func newRemoveCategoryCommand(app *App) *cobra.Command {
	var semester string
	var force bool
	cmd := &cobra.Command{
		Use:   "category CODE NAME",
		Short: "Remove a category; requires --force when it still holds assignments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Categories.Remove(cmd.Context(), args[0], semester, args[1], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q from %s\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove the category's assignments too")
	return cmd
}

func newRemoveAssignmentCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "assignment CODE TITLE",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Remove(cmd.Context(), args[0], semester, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment %q\n", args[1])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}
