package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses and categories",
	}
	cmd.AddCommand(newListCoursesCommand(app), newListCategoriesCommand(app))
	return cmd
}

func newListCoursesCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses with assignment counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Courses.List(cmd.Context(), semester)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses yet.")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "Code", "Title", "Semester", "Credits", "Assignments")
			for _, row := range rows {
				table.Append([]string{
					row.Code,
					row.Title,
					row.Semester,
					strconv.Itoa(row.CreditHours),
					strconv.Itoa(row.AssignmentCount),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "only this semester")
	return cmd
}

func newListCategoriesCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "categories CODE",
		Short: "List a course's categories with assignment aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Categories.List(cmd.Context(), args[0], semester)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Course %s has no categories yet.\n", args[0])
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "Name", "Weight", "Assignments", "Average")
			for _, row := range rows {
				table.Append([]string{
					row.Name,
					fmt.Sprintf("%.2f", row.Weight),
					strconv.Itoa(row.AssignmentCount),
					formatGrade(row.AverageScore),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}
