package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/astanton/gradebook/internal/service"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

func newEditCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit category weights and assignment scores",
	}
	cmd.AddCommand(newEditWeightCommand(app), newEditAssignmentCommand(app))
	return cmd
}

func newEditWeightCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "category CODE NAME WEIGHT",
		Short: "Change a category's weight",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weight %q", args[2]))
			}
			if err := app.Categories.EditWeight(cmd.Context(), service.EditCategoryWeightRequest{
				CourseCode: args[0],
				Semester:   semester,
				Name:       args[1],
				Weight:     weight,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set weight of %q to %.2f\n", args[1], weight)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func newEditAssignmentCommand(app *App) *cobra.Command {
	var semester, newTitle string
	var earned, max float64
	cmd := &cobra.Command{
		Use:   "assignment CODE TITLE",
		Short: "Change an assignment's title or points",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.EditAssignmentRequest{
				CourseCode: args[0],
				Semester:   semester,
				Title:      args[1],
			}
			if cmd.Flags().Changed("title") {
				req.NewTitle = &newTitle
			}
			if cmd.Flags().Changed("earned") {
				req.EarnedPoints = &earned
			}
			if cmd.Flags().Changed("max") {
				req.MaxPoints = &max
			}
			assignment, err := app.Assignments.Edit(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q: %g/%g\n", assignment.Title, assignment.EarnedPoints, assignment.MaxPoints)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	cmd.Flags().StringVar(&newTitle, "title", "", "new title")
	cmd.Flags().Float64Var(&earned, "earned", 0, "new earned points")
	cmd.Flags().Float64Var(&max, "max", 0, "new maximum points")
	return cmd
}

func newMoveCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "move CODE TITLE CATEGORY",
		Short: "Move an assignment to another category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Move(cmd.Context(), args[0], semester, args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q to %q\n", args[1], args[2])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func newNormalizeCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "normalize CODE",
		Short: "Rescale a course's category weights to sum to 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byName, err := app.Categories.NormalizeWeights(cmd.Context(), args[0], semester)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if byName == nil {
				fmt.Fprintf(out, "Weights of %s already sum to 1.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Normalized %d weights:\n", len(byName))
			for name, weight := range byName {
				fmt.Fprintf(out, "  %s: %.4f\n", name, weight)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}
