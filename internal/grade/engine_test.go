package grade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

func day(offset int) time.Time {
	return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func category(name string, weight float64, assignments ...models.Assignment) models.Category {
	return models.Category{Name: name, Weight: weight, Assignments: assignments}
}

func assignment(title string, max, earned float64, created time.Time) models.Assignment {
	return models.Assignment{Title: title, MaxPoints: max, EarnedPoints: earned, CreatedAt: created}
}

func TestCategoryPercentage(t *testing.T) {
	cat := category("Homework", 0.5,
		assignment("HW1", 100, 100, day(0)),
		assignment("HW2", 100, 80, day(1)),
	)
	value, ok, err := CategoryPercentage(cat)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 90.0, value, 1e-9)
}

func TestCategoryPercentageEmptyIsUndefined(t *testing.T) {
	_, ok, err := CategoryPercentage(category("Exams", 0.5))
	require.NoError(t, err)
	assert.False(t, ok, "empty category must be undefined, not zero")
}

func TestCategoryPercentageBoundaries(t *testing.T) {
	value, ok, err := CategoryPercentage(category("Quiz", 0.2, assignment("Q1", 50, 50, day(0))))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 100.0, value)

	value, ok, err = CategoryPercentage(category("Quiz", 0.2, assignment("Q1", 50, 0, day(0))))
	require.NoError(t, err)
	require.True(t, ok, "a zero score is defined, not missing data")
	assert.Equal(t, 0.0, value)
}

func TestCategoryPercentageInvalidMaxPoints(t *testing.T) {
	_, _, err := CategoryPercentage(category("Quiz", 0.2, assignment("Q1", 0, 10, day(0))))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrData))
}

func TestCategoryPercentageNegativeEarned(t *testing.T) {
	_, _, err := CategoryPercentage(category("Quiz", 0.2, assignment("Q1", 10, -1, day(0))))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrData))
}

func TestCourseGradeSingleActiveCategory(t *testing.T) {
	// CHM343: Exams has no assignments yet, so Homework carries the full
	// renormalized weight.
	course := models.Course{
		Code: "CHM343",
		Categories: []models.Category{
			category("Homework", 0.5,
				assignment("HW1", 100, 100, day(0)),
				assignment("HW2", 100, 80, day(1)),
			),
			category("Exams", 0.5),
		},
	}
	value, ok, err := CourseGrade(course)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 90.0, value, 1e-9)
}

func TestCourseGradeTwoActiveCategories(t *testing.T) {
	course := models.Course{
		Code: "CHM343",
		Categories: []models.Category{
			category("Homework", 0.5,
				assignment("HW1", 100, 100, day(0)),
				assignment("HW2", 100, 80, day(1)),
			),
			category("Exams", 0.5, assignment("Midterm", 50, 45, day(2))),
		},
	}
	value, ok, err := CourseGrade(course)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 90.0, value, 1e-9)
}

func TestCourseGradeRenormalizesOddWeights(t *testing.T) {
	course := models.Course{
		Code: "CHM343",
		Categories: []models.Category{
			category("Homework", 0.5,
				assignment("HW1", 100, 100, day(0)),
				assignment("HW2", 100, 80, day(1)),
			),
			category("Exams", 0.5, assignment("Midterm", 50, 45, day(2))),
			category("Quizzes", 0.3, assignment("Q1", 10, 5, day(3))),
		},
	}
	value, ok, err := CourseGrade(course)
	require.NoError(t, err)
	require.True(t, ok)
	// (0.5*90 + 0.5*90 + 0.3*50) / 1.3
	assert.InDelta(t, (0.5*90+0.5*90+0.3*50)/1.3, value, 1e-9)
	assert.InDelta(t, 80.77, value, 0.01)
}

func TestCourseGradeWeightsNotSummingToOne(t *testing.T) {
	// 0.3/0.3 must behave exactly like 0.5/0.5 once both are active.
	course := models.Course{
		Categories: []models.Category{
			category("A", 0.3, assignment("a", 100, 100, day(0))),
			category("B", 0.3, assignment("b", 100, 50, day(0))),
		},
	}
	value, ok, err := CourseGrade(course)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 75.0, value, 1e-9)
}

func TestCourseGradeUndefinedCases(t *testing.T) {
	_, ok, err := CourseGrade(models.Course{})
	require.NoError(t, err)
	assert.False(t, ok, "no categories means no grade")

	_, ok, err = CourseGrade(models.Course{Categories: []models.Category{
		category("Exams", 0.6),
		category("Homework", 0.4),
	}})
	require.NoError(t, err)
	assert.False(t, ok, "no active categories means no grade")
}

func TestCourseGradeIdempotent(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("A", 0.7, assignment("a", 30, 17, day(0)), assignment("b", 45, 33, day(1))),
			category("B", 0.3, assignment("c", 7, 3, day(2))),
		},
	}
	first, ok1, err1 := CourseGrade(course)
	second, ok2, err2 := CourseGrade(course)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second, "repeated calls on unchanged data must be bit-identical")
}

func TestCourseGradePropagatesDataError(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("A", 0.5, assignment("good", 10, 9, day(0))),
			category("B", 0.5, assignment("bad", 0, 0, day(0))),
		},
	}
	_, _, err := CourseGrade(course)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrData))
}

func TestDistributionCountsEveryAssignment(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("A", 0.5,
				assignment("perfect", 100, 100, day(0)),
				assignment("low", 100, 4, day(1)),
				assignment("mid", 100, 55, day(2)),
			),
			category("B", 0.5,
				assignment("bonus", 100, 110, day(3)),
				assignment("edge", 100, 90, day(4)),
			),
		},
	}
	buckets, err := Distribution(course)
	require.NoError(t, err)
	require.Len(t, buckets, 10)

	total := 0
	for i, b := range buckets {
		assert.Equal(t, i*BucketWidth, b.Low)
		assert.Equal(t, (i+1)*BucketWidth, b.High)
		total += b.Count
	}
	assert.Equal(t, 5, total, "no assignment may be dropped or double-counted")

	assert.Equal(t, 1, buckets[0].Count)             // 4%
	assert.Equal(t, 1, buckets[5].Count)             // 55%
	assert.Equal(t, 3, buckets[9].Count)             // 90%, 100%, capped 110%
	assert.Equal(t, 0, buckets[1].Count, "zero-count buckets are still emitted")
}

func TestDistributionEmptyCourse(t *testing.T) {
	buckets, err := Distribution(models.Course{Categories: []models.Category{category("A", 1)}})
	require.NoError(t, err)
	require.Len(t, buckets, 10)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestTrendRunningGrade(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("Homework", 0.5,
				assignment("HW1", 100, 100, day(0)),
				assignment("HW2", 100, 80, day(2)),
			),
			category("Exams", 0.5, assignment("Midterm", 50, 45, day(5))),
		},
	}
	points, err := Trend(course, 30)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.True(t, points[0].Date.Before(points[1].Date))
	assert.True(t, points[1].Date.Before(points[2].Date))

	assert.InDelta(t, 100.0, points[0].Grade, 1e-9) // HW1 only
	assert.InDelta(t, 90.0, points[1].Grade, 1e-9)  // HW1+HW2
	assert.InDelta(t, 90.0, points[2].Grade, 1e-9)  // both categories at 90
}

func TestTrendWindowAnchorsAtLatestAssignment(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("Homework", 1,
				assignment("old", 100, 40, day(0)),
				assignment("recent", 100, 90, day(20)),
			),
		},
	}
	points, err := Trend(course, 7)
	require.NoError(t, err)
	require.Len(t, points, 1, "days outside the trailing window are excluded")
	// The running grade still accumulates assignments that predate the window.
	assert.InDelta(t, 65.0, points[0].Grade, 1e-9)
}

func TestTrendRestartable(t *testing.T) {
	course := models.Course{
		Categories: []models.Category{
			category("A", 1, assignment("a", 10, 8, day(0)), assignment("b", 10, 6, day(1))),
		},
	}
	first, err := Trend(course, 30)
	require.NoError(t, err)
	second, err := Trend(course, 30)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTrendEmptyCourse(t *testing.T) {
	points, err := Trend(models.Course{Categories: []models.Category{category("A", 1)}}, 30)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestTrendRejectsNonPositiveWindow(t *testing.T) {
	_, err := Trend(models.Course{}, 0)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}
