package models

import "time"

// Course is an academic course identified by its code within a semester.
// The code is assigned once and never changed afterwards.
type Course struct {
	ID          string     `db:"id" json:"id"`
	Code        string     `db:"course_code" json:"course_code"`
	Title       string     `db:"course_title" json:"course_title"`
	Semester    string     `db:"semester" json:"semester"`
	CreditHours int        `db:"credit_hours" json:"credit_hours"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	Categories  []Category `json:"categories,omitempty"`
}

// Category is a weighted grading bucket within a course. Weights are stored
// as fractions and need not sum to exactly 1 across a course; grade
// computation renormalizes over the categories that hold assignments.
type Category struct {
	ID          string       `db:"id" json:"id"`
	CourseID    string       `db:"course_id" json:"course_id"`
	Name        string       `db:"name" json:"name"`
	Weight      float64      `db:"weight" json:"weight"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Assignment is a graded item. EarnedPoints may exceed MaxPoints for bonus
// credit; MaxPoints must be positive.
type Assignment struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	CategoryID   string    `db:"category_id" json:"category_id"`
	Title        string    `db:"title" json:"title"`
	MaxPoints    float64   `db:"max_points" json:"max_points"`
	EarnedPoints float64   `db:"earned_points" json:"earned_points"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter scopes course listing queries.
type CourseFilter struct {
	Semester string
}

// CourseListRow combines a course with its assignment count for listings.
type CourseListRow struct {
	Course
	AssignmentCount int `db:"assignment_count" json:"assignment_count"`
}

// CategoryListRow combines a category with assignment aggregates for listings.
type CategoryListRow struct {
	Category
	AssignmentCount int      `db:"assignment_count" json:"assignment_count"`
	AverageScore    *float64 `db:"avg_score" json:"average_score,omitempty"`
}
