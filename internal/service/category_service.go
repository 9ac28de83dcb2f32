package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

// weightEpsilon absorbs floating point drift in weight sum checks.
const weightEpsilon = 1e-4

type categoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	CreateBatch(ctx context.Context, categories []models.Category) error
	FindByName(ctx context.Context, courseID, name string) (*models.Category, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.CategoryListRow, error)
	SumWeights(ctx context.Context, courseID string) (float64, error)
	UpdateWeight(ctx context.Context, id string, weight float64) error
	UpdateWeights(ctx context.Context, weights map[string]float64) error
	CountAssignments(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type courseResolver interface {
	FindByCode(ctx context.Context, code, semester string) (*models.Course, error)
}

// CategoryItem is one name/weight pair within a batch add.
type CategoryItem struct {
	Name   string  `validate:"required"`
	Weight float64 `validate:"gt=0,lte=1"`
}

// AddCategoryRequest adds a single weighted category to a course.
type AddCategoryRequest struct {
	CourseCode string  `validate:"required"`
	Semester   string  `validate:"omitempty"`
	Name       string  `validate:"required"`
	Weight     float64 `validate:"gt=0,lte=1"`
}

// AddCategoriesRequest replaces the empty category set of a course in one
// shot; the batch must account for the full weight.
type AddCategoriesRequest struct {
	CourseCode string         `validate:"required"`
	Semester   string         `validate:"omitempty"`
	Items      []CategoryItem `validate:"required,min=1,dive"`
}

// EditCategoryWeightRequest changes a category's stored weight.
type EditCategoryWeightRequest struct {
	CourseCode string  `validate:"required"`
	Semester   string  `validate:"omitempty"`
	Name       string  `validate:"required"`
	Weight     float64 `validate:"gt=0,lte=1"`
}

// CategoryService orchestrates grading category management. Weight
// preconditions are enforced here, at write time, so the grade engine never
// sees a non-positive weight.
type CategoryService struct {
	categories categoryRepo
	courses    courseResolver
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCategoryService constructs CategoryService.
func NewCategoryService(categories categoryRepo, courses courseResolver, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{categories: categories, courses: courses, validator: validate, logger: logger}
}

// Add creates one category, which must fit within the course's remaining
// unallocated weight.
func (s *CategoryService) Add(ctx context.Context, req AddCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid category payload")
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode, req.Semester)
	if err != nil {
		return nil, mapCourseLookupError(err, req.CourseCode)
	}
	sum, err := s.categories.SumWeights(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to sum weights")
	}
	remaining := 1.0 - sum
	if req.Weight > remaining+weightEpsilon {
		return nil, appErrors.Clone(appErrors.ErrInvalidWeights,
			fmt.Sprintf("weight %.4g exceeds remaining %.4g for course %s", req.Weight, math.Max(remaining, 0), req.CourseCode))
	}
	category := &models.Category{CourseID: course.ID, Name: req.Name, Weight: req.Weight}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, mapCategoryWriteError(err, req.Name)
	}
	s.logger.Info("category added", zap.String("course", req.CourseCode), zap.String("name", req.Name), zap.Float64("weight", req.Weight))
	return category, nil
}

// AddBatch creates a full category set whose weights must sum to 1.
func (s *CategoryService) AddBatch(ctx context.Context, req AddCategoriesRequest) ([]models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid categories payload")
	}
	total := 0.0
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if seen[item.Name] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate category name %q", item.Name))
		}
		seen[item.Name] = true
		total += item.Weight
	}
	if math.Abs(total-1.0) > weightEpsilon {
		return nil, appErrors.Clone(appErrors.ErrInvalidWeights, fmt.Sprintf("category weights must sum to 1.0, got %.4g", total))
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode, req.Semester)
	if err != nil {
		return nil, mapCourseLookupError(err, req.CourseCode)
	}
	existing, err := s.categories.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list categories")
	}
	if len(existing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course %s already has categories", req.CourseCode))
	}
	categories := make([]models.Category, 0, len(req.Items))
	for _, item := range req.Items {
		categories = append(categories, models.Category{CourseID: course.ID, Name: item.Name, Weight: item.Weight})
	}
	if err := s.categories.CreateBatch(ctx, categories); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to create categories")
	}
	s.logger.Info("categories added", zap.String("course", req.CourseCode), zap.Int("count", len(categories)))
	return categories, nil
}

// List returns a course's categories with assignment aggregates.
func (s *CategoryService) List(ctx context.Context, courseCode, semester string) ([]models.CategoryListRow, error) {
	course, err := s.courses.FindByCode(ctx, courseCode, semester)
	if err != nil {
		return nil, mapCourseLookupError(err, courseCode)
	}
	rows, err := s.categories.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list categories")
	}
	return rows, nil
}

// EditWeight changes a category weight, keeping the course total within 1.
func (s *CategoryService) EditWeight(ctx context.Context, req EditCategoryWeightRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid weight payload")
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode, req.Semester)
	if err != nil {
		return mapCourseLookupError(err, req.CourseCode)
	}
	category, err := s.findCategory(ctx, course.ID, req.Name)
	if err != nil {
		return err
	}
	sum, err := s.categories.SumWeights(ctx, course.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to sum weights")
	}
	if sum-category.Weight+req.Weight > 1.0+weightEpsilon {
		return appErrors.Clone(appErrors.ErrInvalidWeights,
			fmt.Sprintf("new weight %.4g would push course %s past 100%%", req.Weight, req.CourseCode))
	}
	if err := s.categories.UpdateWeight(ctx, category.ID, req.Weight); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to update weight")
	}
	s.logger.Info("category weight updated", zap.String("course", req.CourseCode), zap.String("name", req.Name), zap.Float64("weight", req.Weight))
	return nil
}

// NormalizeWeights rescales a course's category weights to sum to exactly 1,
// preserving their proportions. A no-op when already normalized.
func (s *CategoryService) NormalizeWeights(ctx context.Context, courseCode, semester string) (map[string]float64, error) {
	course, err := s.courses.FindByCode(ctx, courseCode, semester)
	if err != nil {
		return nil, mapCourseLookupError(err, courseCode)
	}
	rows, err := s.categories.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list categories")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s has no categories", courseCode))
	}
	total := 0.0
	for _, row := range rows {
		total += row.Weight
	}
	if total <= 0 {
		return nil, appErrors.Clone(appErrors.ErrData, fmt.Sprintf("course %s has non-positive total weight %g", courseCode, total))
	}
	if math.Abs(total-1.0) <= weightEpsilon {
		return nil, nil
	}
	updated := make(map[string]float64, len(rows))
	byName := make(map[string]float64, len(rows))
	for _, row := range rows {
		scaled := row.Weight / total
		updated[row.ID] = scaled
		byName[row.Name] = scaled
	}
	if err := s.categories.UpdateWeights(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to normalize weights")
	}
	s.logger.Info("weights normalized", zap.String("course", courseCode), zap.Float64("previous_total", total))
	return byName, nil
}

// Remove deletes a category. Categories still holding assignments are only
// removed when force is set.
func (s *CategoryService) Remove(ctx context.Context, courseCode, semester, name string, force bool) error {
	course, err := s.courses.FindByCode(ctx, courseCode, semester)
	if err != nil {
		return mapCourseLookupError(err, courseCode)
	}
	category, err := s.findCategory(ctx, course.ID, name)
	if err != nil {
		return err
	}
	count, err := s.categories.CountAssignments(ctx, category.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to count assignments")
	}
	if count > 0 && !force {
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("category %q holds %d assignment(s); use force to remove them too", name, count))
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to remove category")
	}
	s.logger.Info("category removed", zap.String("course", courseCode), zap.String("name", name), zap.Int("assignments", count))
	return nil
}

func (s *CategoryService) findCategory(ctx context.Context, courseID, name string) (*models.Category, error) {
	category, err := s.categories.FindByName(ctx, courseID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("category %q not found", name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to find category")
	}
	return category, nil
}

func mapCategoryWriteError(err error, name string) error {
	// UNIQUE(course_id, name) violations surface as driver errors.
	return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Exit,
		fmt.Sprintf("failed to create category %q (name may already exist)", name))
}
