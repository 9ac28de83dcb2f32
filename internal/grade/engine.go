// Package grade computes weighted course grades from fully materialized
// course data. All functions are pure: they read the supplied structures,
// perform no I/O, and recompute their results on every call.
package grade

import (
	"fmt"
	"sort"
	"time"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

// BucketWidth is the percentage span of each distribution band.
const BucketWidth = 10

// Bucket counts assignments whose percentage falls within [Low, High).
// The top band is inclusive of 100; scores above 100 (bonus credit) are
// capped into the top band rather than given a band of their own.
type Bucket struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// TrendPoint pairs a calendar day with the running course grade as of that
// day. Days carry no time-of-day component.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Grade float64   `json:"grade"`
}

// CategoryPercentage returns 100 * sum(earned)/sum(max) over a category's
// assignments. ok is false when the category holds no assignments; callers
// must treat that as "no data", never as 0%.
func CategoryPercentage(cat models.Category) (value float64, ok bool, err error) {
	if err := validateCategory(cat); err != nil {
		return 0, false, err
	}
	if len(cat.Assignments) == 0 {
		return 0, false, nil
	}
	var earned, max float64
	for _, a := range cat.Assignments {
		earned += a.EarnedPoints
		max += a.MaxPoints
	}
	return earned / max * 100, true, nil
}

// CourseGrade combines category percentages by weight. Only categories with
// at least one assignment participate; their weights are renormalized to sum
// to 1 over that active set, so a course with a single populated category is
// graded entirely by it regardless of the stored weight, and stored weights
// that do not sum to 1 are still combined proportionally.
func CourseGrade(course models.Course) (value float64, ok bool, err error) {
	var weightSum, weighted float64
	active := 0
	for _, cat := range course.Categories {
		pct, hasData, err := CategoryPercentage(cat)
		if err != nil {
			return 0, false, err
		}
		if !hasData {
			continue
		}
		active++
		weightSum += cat.Weight
		weighted += cat.Weight * pct
	}
	if active == 0 || weightSum == 0 {
		return 0, false, nil
	}
	return weighted / weightSum, true, nil
}

// Distribution classifies every assignment in the course into fixed
// percentage bands of width 10, from [0,10) through [90,100]. All ten
// buckets are emitted in ascending order, including zero counts.
func Distribution(course models.Course) ([]Bucket, error) {
	buckets := make([]Bucket, 100/BucketWidth)
	for i := range buckets {
		buckets[i].Low = i * BucketWidth
		buckets[i].High = (i + 1) * BucketWidth
	}
	for _, cat := range course.Categories {
		if err := validateCategory(cat); err != nil {
			return nil, err
		}
		for _, a := range cat.Assignments {
			pct := a.EarnedPoints / a.MaxPoints * 100
			idx := int(pct) / BucketWidth
			if idx >= len(buckets) {
				idx = len(buckets) - 1
			}
			buckets[idx].Count++
		}
	}
	return buckets, nil
}

// Trend returns one point per calendar day on which at least one assignment
// was recorded, ascending, limited to the trailing windowDays. Each point
// carries the running course grade computed from every assignment recorded
// on or before that day.
//
// The window anchors at the date of the latest assignment in the course, not
// at wall-clock now; this keeps the computation a pure function of its input
// and makes trend output reproducible.
func Trend(course models.Course, windowDays int) ([]TrendPoint, error) {
	if windowDays <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("trend window must be positive, got %d", windowDays))
	}
	for _, cat := range course.Categories {
		if err := validateCategory(cat); err != nil {
			return nil, err
		}
	}

	var latest time.Time
	daySet := make(map[time.Time]struct{})
	for _, cat := range course.Categories {
		for _, a := range cat.Assignments {
			day := truncateToDay(a.CreatedAt)
			daySet[day] = struct{}{}
			if day.After(latest) {
				latest = day
			}
		}
	}
	if len(daySet) == 0 {
		return nil, nil
	}

	windowStart := latest.AddDate(0, 0, -(windowDays - 1))
	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		if day.Before(windowStart) {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		value, ok, err := CourseGrade(courseAsOf(course, day))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		points = append(points, TrendPoint{Date: day, Grade: value})
	}
	return points, nil
}

// courseAsOf returns a shallow view of the course restricted to assignments
// recorded on or before the given day.
func courseAsOf(course models.Course, day time.Time) models.Course {
	view := course
	view.Categories = make([]models.Category, len(course.Categories))
	cutoff := day.AddDate(0, 0, 1)
	for i, cat := range course.Categories {
		catView := cat
		catView.Assignments = nil
		for _, a := range cat.Assignments {
			if truncateToDay(a.CreatedAt).Before(cutoff) {
				catView.Assignments = append(catView.Assignments, a)
			}
		}
		view.Categories[i] = catView
	}
	return view
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validateCategory guards the engine against data that upstream add/edit
// validation should have rejected. A violation is a DataError, never a
// silently handled divide-by-zero.
func validateCategory(cat models.Category) error {
	if cat.Weight <= 0 {
		return appErrors.Clone(appErrors.ErrData, fmt.Sprintf("category %q has non-positive weight %g", cat.Name, cat.Weight))
	}
	for _, a := range cat.Assignments {
		if a.MaxPoints <= 0 {
			return appErrors.Clone(appErrors.ErrData, fmt.Sprintf("assignment %q has non-positive max points %g", a.Title, a.MaxPoints))
		}
		if a.EarnedPoints < 0 {
			return appErrors.Clone(appErrors.ErrData, fmt.Sprintf("assignment %q has negative earned points %g", a.Title, a.EarnedPoints))
		}
	}
	return nil
}
