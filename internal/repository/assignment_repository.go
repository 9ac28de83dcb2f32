package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/astanton/gradebook/internal/models"
)

// AssignmentRepository handles assignment persistence.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	const query = `INSERT INTO assignments (id, course_id, category_id, title, max_points, earned_points, created_at, updated_at)
        VALUES (:id, :course_id, :category_id, :title, :max_points, :earned_points, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByTitle returns an assignment by title within a course.
func (r *AssignmentRepository) FindByTitle(ctx context.Context, courseID, title string) (*models.Assignment, error) {
	const query = `SELECT id, course_id, category_id, title, max_points, earned_points, created_at, updated_at
        FROM assignments WHERE course_id = ? AND title = ? ORDER BY created_at DESC LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, courseID, title); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Update rewrites an assignment's title and points.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET title = :title, max_points = :max_points, earned_points = :earned_points, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Move reassigns an assignment to another category.
func (r *AssignmentRepository) Move(ctx context.Context, id, categoryID string) error {
	const query = "UPDATE assignments SET category_id = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, categoryID, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("move assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
