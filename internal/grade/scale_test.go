package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astanton/gradebook/internal/models"
)

func TestAssignmentPercentageBonus(t *testing.T) {
	pct, err := AssignmentPercentage(models.Assignment{Title: "extra", MaxPoints: 50, EarnedPoints: 55})
	require.NoError(t, err)
	assert.InDelta(t, 110.0, pct, 1e-9)
}

func TestLetterAndPoints(t *testing.T) {
	cases := []struct {
		pct    float64
		letter string
		points float64
	}{
		{100, "A", 4.0},
		{93, "A", 4.0},
		{90, "A-", 3.7},
		{85, "B", 3.0},
		{80.77, "B-", 2.7},
		{61, "D-", 0.7},
		{12, "F", 0.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, Letter(tc.pct), "letter for %.2f", tc.pct)
		assert.Equal(t, tc.points, Points(tc.pct), "points for %.2f", tc.pct)
	}
}

func TestSemesterGPA(t *testing.T) {
	courses := []models.Course{
		{Code: "CHM343", CreditHours: 4},
		{Code: "BIO302", CreditHours: 3},
		{Code: "SEM100", CreditHours: 0},
		{Code: "BIO515", CreditHours: 3},
	}
	g1 := 95.0 // 4.0
	g2 := 85.0 // 3.0
	g3 := 90.0
	grades := []*float64{&g1, &g2, &g3, nil}

	gpa, ok := SemesterGPA(courses, grades)
	require.True(t, ok)
	assert.InDelta(t, (4.0*4+3.0*3)/7, gpa, 1e-9)
}

func TestSemesterGPAUndefined(t *testing.T) {
	_, ok := SemesterGPA([]models.Course{{CreditHours: 3}}, []*float64{nil})
	assert.False(t, ok)
}
