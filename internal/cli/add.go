package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astanton/gradebook/internal/service"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

func newAddCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add courses, categories and assignments",
	}
	cmd.AddCommand(newAddCourseCommand(app), newAddCategoryCommand(app), newAddCategoriesCommand(app), newAddAssignmentCommand(app))
	return cmd
}

func newAddCourseCommand(app *App) *cobra.Command {
	var semester string
	var credits int
	cmd := &cobra.Command{
		Use:   "course CODE TITLE",
		Short: "Add a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := app.Courses.Add(cmd.Context(), service.AddCourseRequest{
				Code:        args[0],
				Title:       args[1],
				Semester:    semester,
				CreditHours: credits,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s, %d credits)\n", course.Code, course.Title, course.Semester, course.CreditHours)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester, e.g. \"Fall 2025\"")
	cmd.Flags().IntVar(&credits, "credits", 0, "credit hours (default 3)")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func newAddCategoryCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "category CODE NAME WEIGHT",
		Short: "Add one weighted category to a course",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weight %q", args[2]))
			}
			category, err := app.Categories.Add(cmd.Context(), service.AddCategoryRequest{
				CourseCode: args[0],
				Semester:   semester,
				Name:       args[1],
				Weight:     weight,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q (weight %.2f) to %s\n", category.Name, category.Weight, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func newAddCategoriesCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:     "categories CODE NAME=WEIGHT [NAME=WEIGHT...]",
		Short:   "Add a full category set whose weights sum to 1",
		Example: `  gradebook add categories CHM343 Exams=0.5 Labs=0.3 Homework=0.2`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseCategoryItems(args[1:])
			if err != nil {
				return err
			}
			categories, err := app.Categories.AddBatch(cmd.Context(), service.AddCategoriesRequest{
				CourseCode: args[0],
				Semester:   semester,
				Items:      items,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d categories to %s\n", len(categories), args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func parseCategoryItems(args []string) ([]service.CategoryItem, error) {
	items := make([]service.CategoryItem, 0, len(args))
	for _, arg := range args {
		name, raw, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("expected NAME=WEIGHT, got %q", arg))
		}
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weight %q for category %q", raw, name))
		}
		items = append(items, service.CategoryItem{Name: name, Weight: weight})
	}
	return items, nil
}

func newAddAssignmentCommand(app *App) *cobra.Command {
	var semester string
	var earned, max float64
	cmd := &cobra.Command{
		Use:     "assignment CODE CATEGORY TITLE",
		Short:   "Record an assignment score",
		Example: `  gradebook add assignment CHM343 Exams "Midterm 1" --earned 92 --max 100`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := app.Assignments.Add(cmd.Context(), service.AddAssignmentRequest{
				CourseCode:   args[0],
				Semester:     semester,
				Category:     args[1],
				Title:        args[2],
				MaxPoints:    max,
				EarnedPoints: earned,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %q: %g/%g\n", assignment.Title, assignment.EarnedPoints, assignment.MaxPoints)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	cmd.Flags().Float64Var(&earned, "earned", 0, "points earned")
	cmd.Flags().Float64Var(&max, "max", 0, "maximum points")
	_ = cmd.MarkFlagRequired("earned")
	_ = cmd.MarkFlagRequired("max")
	return cmd
}
