package grade

import (
	"fmt"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

// AssignmentPercentage returns a single assignment's score as a percentage.
// Bonus credit may push the result above 100.
func AssignmentPercentage(a models.Assignment) (float64, error) {
	if a.MaxPoints <= 0 {
		return 0, appErrors.Clone(appErrors.ErrData, fmt.Sprintf("assignment %q has non-positive max points %g", a.Title, a.MaxPoints))
	}
	if a.EarnedPoints < 0 {
		return 0, appErrors.Clone(appErrors.ErrData, fmt.Sprintf("assignment %q has negative earned points %g", a.Title, a.EarnedPoints))
	}
	return a.EarnedPoints / a.MaxPoints * 100, nil
}

// letterScale maps percentage cutoffs to letter grades and 4.0-scale points,
// highest cutoff first.
var letterScale = []struct {
	cutoff float64
	letter string
	points float64
}{
	{93, "A", 4.0},
	{90, "A-", 3.7},
	{87, "B+", 3.3},
	{83, "B", 3.0},
	{80, "B-", 2.7},
	{77, "C+", 2.3},
	{73, "C", 2.0},
	{70, "C-", 1.7},
	{67, "D+", 1.3},
	{63, "D", 1.0},
	{60, "D-", 0.7},
	{0, "F", 0.0},
}

// Letter returns the letter grade for a percentage.
func Letter(pct float64) string {
	for _, step := range letterScale {
		if pct >= step.cutoff {
			return step.letter
		}
	}
	return "F"
}

// Points returns the 4.0-scale grade points for a percentage.
func Points(pct float64) float64 {
	for _, step := range letterScale {
		if pct >= step.cutoff {
			return step.points
		}
	}
	return 0
}

// SemesterGPA computes a credit-hour weighted GPA over course grades. Courses
// without a grade, and zero-credit courses, do not participate. ok is false
// when nothing participates.
func SemesterGPA(courses []models.Course, grades []*float64) (gpa float64, ok bool) {
	var points, credits float64
	for i, course := range courses {
		if i >= len(grades) || grades[i] == nil || course.CreditHours <= 0 {
			continue
		}
		points += Points(*grades[i]) * float64(course.CreditHours)
		credits += float64(course.CreditHours)
	}
	if credits == 0 {
		return 0, false
	}
	return points / credits, true
}
