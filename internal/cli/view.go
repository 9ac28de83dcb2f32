package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/astanton/gradebook/internal/report"
)

func newShowCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a full course breakdown",
	}
	var semester string
	course := &cobra.Command{
		Use:   "course CODE",
		Short: "Show a course with categories, assignments and the current grade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Reports.Details(cmd.Context(), args[0], semester)
			if err != nil {
				return err
			}
			renderCourseSummary(cmd, summary)
			return nil
		},
	}
	course.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	cmd.AddCommand(course)
	return cmd
}

func renderCourseSummary(cmd *cobra.Command, summary *report.CourseSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s, %d credits)\n", summary.Code, summary.Title, summary.Semester, summary.CreditHours)
	if summary.Grade != nil {
		fmt.Fprintf(out, "Grade: %.1f (%s)\n\n", *summary.Grade, summary.Letter)
	} else {
		fmt.Fprintf(out, "Grade: N/A\n\n")
	}

	table := newTable(out, "Category", "Weight", "Assignment", "Score", "Percentage", "Date")
	for _, cat := range summary.Categories {
		catCell := fmt.Sprintf("%s (%s)", cat.Name, formatGrade(cat.Percentage))
		if len(cat.Assignments) == 0 {
			table.Append([]string{catCell, fmt.Sprintf("%.2f", cat.Weight), "-", "-", "-", "-"})
			continue
		}
		for i, a := range cat.Assignments {
			row := []string{"", "", a.Title, fmt.Sprintf("%g/%g", a.EarnedPoints, a.MaxPoints), fmt.Sprintf("%.1f", a.Percentage), a.RecordedAt.Format("2006-01-02")}
			if i == 0 {
				row[0] = catCell
				row[1] = fmt.Sprintf("%.2f", cat.Weight)
			}
			table.Append(row)
		}
	}
	table.Render()
}

func newViewCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Grade summaries, trends and score distributions",
	}
	cmd.AddCommand(newViewSummaryCommand(app), newViewDetailsCommand(app), newViewTrendsCommand(app), newViewDistributionCommand(app))
	return cmd
}

func newViewDetailsCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "details CODE",
		Short: "Full course breakdown (same as show course)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Reports.Details(cmd.Context(), args[0], semester)
			if err != nil {
				return err
			}
			renderCourseSummary(cmd, summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}

func newViewSummaryCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Current grade for every course, with per-semester GPA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Reports.Summary(cmd.Context(), semester)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summary.Courses) == 0 {
				fmt.Fprintln(out, "No courses yet.")
				return nil
			}
			table := newTable(out, "Code", "Title", "Semester", "Assignments", "Grade", "Letter")
			for _, course := range summary.Courses {
				letter := course.Letter
				if letter == "" {
					letter = "-"
				}
				table.Append([]string{
					course.Code,
					course.Title,
					course.Semester,
					strconv.Itoa(course.AssignmentCount),
					formatGrade(course.Grade),
					letter,
				})
			}
			table.Render()

			if len(summary.Semesters) > 0 {
				fmt.Fprintln(out)
				rollup := newTable(out, "Semester", "Courses", "Average", "GPA")
				for _, sem := range summary.Semesters {
					gpa := "N/A"
					if sem.GPA != nil {
						gpa = fmt.Sprintf("%.2f", *sem.GPA)
					}
					rollup.Append([]string{sem.Semester, strconv.Itoa(sem.CourseCount), formatGrade(sem.AverageGrade), gpa})
				}
				rollup.Render()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "only this semester")
	return cmd
}

func newViewTrendsCommand(app *App) *cobra.Command {
	var semester string
	var days int
	cmd := &cobra.Command{
		Use:   "trends CODE",
		Short: "Running course grade over the last recorded days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trend, err := app.Reports.Trends(cmd.Context(), args[0], semester, days)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s, last %d days\n", trend.Code, trend.Title, trend.WindowDays)
			if len(trend.Points) == 0 {
				fmt.Fprintln(out, "No graded assignments in the window.")
				return nil
			}
			table := newTable(out, "Date", "Grade")
			for _, point := range trend.Points {
				table.Append([]string{point.Date, fmt.Sprintf("%.1f", point.Grade)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	cmd.Flags().IntVar(&days, "days", 0, "window size in days (default from config)")
	return cmd
}

func newViewDistributionCommand(app *App) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "distribution CODE",
		Short: "Assignment score histogram in 10-point bands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist, err := app.Reports.Distribution(cmd.Context(), args[0], semester)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s, %d assignments\n", dist.Code, dist.Title, dist.Total)
			table := newTable(out, "Band", "Count", "Share")
			for _, row := range dist.Rows {
				share := "-"
				if row.Share != nil {
					share = fmt.Sprintf("%.1f%%", *row.Share)
				}
				table.Append([]string{row.Label, strconv.Itoa(row.Count), share})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&semester, "semester", "s", "", "semester to disambiguate the course")
	return cmd
}
