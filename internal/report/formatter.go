// Package report shapes grade engine output into render-agnostic summary
// records. The formatter never recomputes grades: every numeric field is a
// 1:1 mapping of an engine result, with one documented display rule applied,
// rounding half-to-even at one decimal place. Undefined grades stay nil so
// renderers can show "no grade yet" instead of a number.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/astanton/gradebook/internal/grade"
	"github.com/astanton/gradebook/internal/models"
)

// Round1 rounds half-to-even at one decimal place. It is the only rounding
// applied anywhere in the reporting path.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round1(*v)
	return &r
}

// EngineResults carries raw (unrounded) engine output for one course, keyed
// by entity ID where per-entity values exist.
type EngineResults struct {
	CourseGrade           *float64
	CategoryPercentages   map[string]*float64
	AssignmentPercentages map[string]float64
}

// CourseSummary is the structured course detail record consumed by the table
// renderer and the exporters.
type CourseSummary struct {
	Code            string         `json:"course_code"`
	Title           string         `json:"course_title"`
	Semester        string         `json:"semester"`
	CreditHours     int            `json:"credit_hours"`
	Grade           *float64       `json:"grade,omitempty"`
	Letter          string         `json:"letter,omitempty"`
	AssignmentCount int            `json:"assignment_count"`
	Categories      []CategoryLine `json:"categories"`
}

// CategoryLine is one category row within a course summary.
type CategoryLine struct {
	Name            string           `json:"name"`
	Weight          float64          `json:"weight"`
	AssignmentCount int              `json:"assignment_count"`
	Percentage      *float64         `json:"percentage,omitempty"`
	Assignments     []AssignmentLine `json:"assignments"`
}

// AssignmentLine is one assignment row within a category.
type AssignmentLine struct {
	Title        string    `json:"title"`
	MaxPoints    float64   `json:"max_points"`
	EarnedPoints float64   `json:"earned_points"`
	Percentage   float64   `json:"percentage"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// DistributionRow is one band of the assignment score distribution.
type DistributionRow struct {
	Label string   `json:"label"`
	Low   int      `json:"low"`
	High  int      `json:"high"`
	Count int      `json:"count"`
	Share *float64 `json:"share,omitempty"`
}

// TrendRow is one day of the grade trend series.
type TrendRow struct {
	Date  string  `json:"date"`
	Grade float64 `json:"grade"`
}

// CourseOverview is one row of the multi-course summary view.
type CourseOverview struct {
	Code            string   `json:"course_code"`
	Title           string   `json:"course_title"`
	Semester        string   `json:"semester"`
	CreditHours     int      `json:"credit_hours"`
	AssignmentCount int      `json:"assignment_count"`
	Grade           *float64 `json:"grade,omitempty"`
	Letter          string   `json:"letter,omitempty"`
}

// SemesterOverview is one row of the per-semester rollup.
type SemesterOverview struct {
	Semester     string   `json:"semester"`
	CourseCount  int      `json:"course_count"`
	AverageGrade *float64 `json:"average_grade,omitempty"`
	GPA          *float64 `json:"gpa,omitempty"`
}

// BuildCourseSummary maps a loaded course plus its engine results into a
// detail record.
func BuildCourseSummary(course models.Course, res EngineResults) CourseSummary {
	summary := CourseSummary{
		Code:        course.Code,
		Title:       course.Title,
		Semester:    course.Semester,
		CreditHours: course.CreditHours,
		Grade:       round1Ptr(res.CourseGrade),
	}
	if summary.Grade != nil {
		summary.Letter = grade.Letter(*summary.Grade)
	}
	for _, cat := range course.Categories {
		line := CategoryLine{
			Name:            cat.Name,
			Weight:          cat.Weight,
			AssignmentCount: len(cat.Assignments),
			Percentage:      round1Ptr(res.CategoryPercentages[cat.ID]),
		}
		for _, a := range cat.Assignments {
			line.Assignments = append(line.Assignments, AssignmentLine{
				Title:        a.Title,
				MaxPoints:    a.MaxPoints,
				EarnedPoints: a.EarnedPoints,
				Percentage:   Round1(res.AssignmentPercentages[a.ID]),
				RecordedAt:   a.CreatedAt,
			})
		}
		summary.AssignmentCount += len(cat.Assignments)
		summary.Categories = append(summary.Categories, line)
	}
	return summary
}

// BuildDistribution maps engine buckets into labeled rows. Share is each
// band's portion of the total count, nil when the course has no assignments.
func BuildDistribution(buckets []grade.Bucket) []DistributionRow {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	rows := make([]DistributionRow, 0, len(buckets))
	for _, b := range buckets {
		row := DistributionRow{
			Label: fmt.Sprintf("%d-%d", b.Low, b.High),
			Low:   b.Low,
			High:  b.High,
			Count: b.Count,
		}
		if total > 0 {
			share := Round1(float64(b.Count) / float64(total) * 100)
			row.Share = &share
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildTrend maps engine trend points into dated display rows.
func BuildTrend(points []grade.TrendPoint) []TrendRow {
	rows := make([]TrendRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, TrendRow{Date: p.Date.Format("2006-01-02"), Grade: Round1(p.Grade)})
	}
	return rows
}

// BuildCourseOverview maps one course listing row plus its engine grade.
func BuildCourseOverview(row models.CourseListRow, courseGrade *float64) CourseOverview {
	overview := CourseOverview{
		Code:            row.Code,
		Title:           row.Title,
		Semester:        row.Semester,
		CreditHours:     row.CreditHours,
		AssignmentCount: row.AssignmentCount,
		Grade:           round1Ptr(courseGrade),
	}
	if overview.Grade != nil {
		overview.Letter = grade.Letter(*overview.Grade)
	}
	return overview
}

// BuildSemesterOverview maps a semester rollup.
func BuildSemesterOverview(semester string, courseCount int, averageGrade, gpa *float64) SemesterOverview {
	out := SemesterOverview{Semester: semester, CourseCount: courseCount, AverageGrade: round1Ptr(averageGrade)}
	if gpa != nil {
		// GPA displays at two decimals by convention; rounding stays half-even.
		rounded := math.RoundToEven(*gpa*100) / 100
		out.GPA = &rounded
	}
	return out
}
