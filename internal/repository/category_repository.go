package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/astanton/gradebook/internal/models"
)

// CategoryRepository handles grading category persistence.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
	const query = `INSERT INTO categories (id, course_id, name, weight, created_at, updated_at)
        VALUES (:id, :course_id, :name, :weight, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// CreateBatch inserts multiple categories in one transaction.
func (r *CategoryRepository) CreateBatch(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO categories (id, course_id, name, weight, created_at, updated_at)
        VALUES (:id, :course_id, :name, :weight, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range categories {
		if categories[i].ID == "" {
			categories[i].ID = uuid.NewString()
		}
		if categories[i].CreatedAt.IsZero() {
			categories[i].CreatedAt = now
		}
		categories[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, categories[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create category %q: %w", categories[i].Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit categories: %w", err)
	}
	return nil
}

// FindByName returns a category by its name within a course.
func (r *CategoryRepository) FindByName(ctx context.Context, courseID, name string) (*models.Category, error) {
	const query = "SELECT id, course_id, name, weight, created_at, updated_at FROM categories WHERE course_id = ? AND name = ?"
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, courseID, name); err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByCourse returns a course's categories with assignment aggregates.
func (r *CategoryRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CategoryListRow, error) {
	const query = `SELECT cat.id, cat.course_id, cat.name, cat.weight, cat.created_at, cat.updated_at,
        COUNT(a.id) AS assignment_count,
        AVG(a.earned_points / a.max_points * 100) AS avg_score
        FROM categories cat
        LEFT JOIN assignments a ON a.category_id = cat.id
        WHERE cat.course_id = ?
        GROUP BY cat.id
        ORDER BY cat.name`
	var rows []models.CategoryListRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return rows, nil
}

// SumWeights returns the total stored weight for a course.
func (r *CategoryRepository) SumWeights(ctx context.Context, courseID string) (float64, error) {
	const query = "SELECT COALESCE(SUM(weight), 0) FROM categories WHERE course_id = ?"
	var sum float64
	if err := r.db.GetContext(ctx, &sum, query, courseID); err != nil {
		return 0, fmt.Errorf("sum category weights: %w", err)
	}
	return sum, nil
}

// UpdateWeight sets a category's weight.
func (r *CategoryRepository) UpdateWeight(ctx context.Context, id string, weight float64) error {
	const query = "UPDATE categories SET weight = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, weight, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update category weight: %w", err)
	}
	return nil
}

// UpdateWeights rewrites weights for multiple categories atomically. Used by
// weight normalization so a course never holds a half-scaled weight set.
func (r *CategoryRepository) UpdateWeights(ctx context.Context, weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for id, weight := range weights {
		if _, err := tx.ExecContext(ctx, "UPDATE categories SET weight = ?, updated_at = ? WHERE id = ?", weight, now, id); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("update weight for category %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit weight updates: %w", err)
	}
	return nil
}

// CountAssignments returns the number of assignments filed under a category.
func (r *CategoryRepository) CountAssignments(ctx context.Context, id string) (int, error) {
	const query = "SELECT COUNT(*) FROM assignments WHERE category_id = ?"
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}

// Delete removes a category; its assignments cascade.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
