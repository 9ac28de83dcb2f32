package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/astanton/gradebook/internal/models"
)

// ErrAmbiguousCourse signals a course code present in multiple semesters
// when no semester was given to disambiguate.
var ErrAmbiguousCourse = errors.New("course code exists in multiple semesters")

// CourseRepository handles course persistence.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, course_code, course_title, semester, credit_hours, created_at, updated_at)
        VALUES (:id, :course_code, :course_title, :semester, :credit_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// ExistsByCodeAndSemester checks whether a course code is taken in a semester.
func (r *CourseRepository) ExistsByCodeAndSemester(ctx context.Context, code, semester string) (bool, error) {
	const query = "SELECT 1 FROM courses WHERE course_code = ? AND semester = ? LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code, semester); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course: %w", err)
	}
	return true, nil
}

// FindByCode returns the course matching code, using semester to
// disambiguate when given. When omitted, exactly one match is required.
func (r *CourseRepository) FindByCode(ctx context.Context, code, semester string) (*models.Course, error) {
	query := "SELECT id, course_code, course_title, semester, credit_hours, created_at, updated_at FROM courses WHERE course_code = ?"
	args := []interface{}{code}
	if semester != "" {
		query += " AND semester = ?"
		args = append(args, semester)
	}
	query += " ORDER BY semester DESC"
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	switch len(courses) {
	case 0:
		return nil, sql.ErrNoRows
	case 1:
		return &courses[0], nil
	default:
		return nil, ErrAmbiguousCourse
	}
}

// List returns courses with their assignment counts, newest semester first.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListRow, error) {
	query := `SELECT c.id, c.course_code, c.course_title, c.semester, c.credit_hours, c.created_at, c.updated_at,
        COUNT(a.id) AS assignment_count
        FROM courses c
        LEFT JOIN assignments a ON a.course_id = c.id
        WHERE 1=1`
	var args []interface{}
	if filter.Semester != "" {
		query += " AND c.semester = ?"
		args = append(args, filter.Semester)
	}
	query += " GROUP BY c.id ORDER BY c.semester DESC, c.course_title"
	var rows []models.CourseListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return rows, nil
}

// Load returns a course with its categories and each category's assignments
// fully materialized, assignments ordered by entry time. This is the shape
// the grade engine consumes.
func (r *CourseRepository) Load(ctx context.Context, id string) (*models.Course, error) {
	const courseQuery = "SELECT id, course_code, course_title, semester, credit_hours, created_at, updated_at FROM courses WHERE id = ?"
	var course models.Course
	if err := r.db.GetContext(ctx, &course, courseQuery, id); err != nil {
		return nil, err
	}

	const categoryQuery = "SELECT id, course_id, name, weight, created_at, updated_at FROM categories WHERE course_id = ? ORDER BY name"
	if err := r.db.SelectContext(ctx, &course.Categories, categoryQuery, id); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	const assignmentQuery = `SELECT id, course_id, category_id, title, max_points, earned_points, created_at, updated_at
        FROM assignments WHERE course_id = ? ORDER BY created_at`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, assignmentQuery, id); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	byCategory := make(map[string][]models.Assignment, len(course.Categories))
	for _, a := range assignments {
		byCategory[a.CategoryID] = append(byCategory[a.CategoryID], a)
	}
	for i := range course.Categories {
		course.Categories[i].Assignments = byCategory[course.Categories[i].ID]
	}
	return &course, nil
}

// Delete removes a course; categories and assignments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
