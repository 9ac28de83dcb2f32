package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

type assignmentRepo interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByTitle(ctx context.Context, courseID, title string) (*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Move(ctx context.Context, id, categoryID string) error
	Delete(ctx context.Context, id string) error
}

type categoryResolver interface {
	FindByName(ctx context.Context, courseID, name string) (*models.Category, error)
}

// AddAssignmentRequest files a graded item under a category. Earned points
// may exceed max points (bonus credit); max points must be positive — this
// is the precondition that keeps DataError out of the store.
type AddAssignmentRequest struct {
	CourseCode   string  `validate:"required"`
	Semester     string  `validate:"omitempty"`
	Category     string  `validate:"required"`
	Title        string  `validate:"required"`
	MaxPoints    float64 `validate:"gt=0"`
	EarnedPoints float64 `validate:"gte=0"`
}

// EditAssignmentRequest updates an assignment; nil fields are left unchanged.
type EditAssignmentRequest struct {
	CourseCode   string `validate:"required"`
	Semester     string `validate:"omitempty"`
	Title        string `validate:"required"`
	NewTitle     *string
	MaxPoints    *float64
	EarnedPoints *float64
}

// AssignmentService orchestrates assignment entry and maintenance.
type AssignmentService struct {
	assignments assignmentRepo
	categories  categoryResolver
	courses     courseResolver
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(assignments assignmentRepo, categories categoryResolver, courses courseResolver, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, categories: categories, courses: courses, validator: validate, logger: logger}
}

// Add records a new assignment score.
func (s *AssignmentService) Add(ctx context.Context, req AddAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid assignment payload")
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode, req.Semester)
	if err != nil {
		return nil, mapCourseLookupError(err, req.CourseCode)
	}
	category, err := s.resolveCategory(ctx, course.ID, req.Category)
	if err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		CourseID:     course.ID,
		CategoryID:   category.ID,
		Title:        req.Title,
		MaxPoints:    req.MaxPoints,
		EarnedPoints: req.EarnedPoints,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to create assignment")
	}
	s.logger.Info("assignment added",
		zap.String("course", req.CourseCode),
		zap.String("category", category.Name),
		zap.String("title", req.Title),
		zap.Float64("earned", req.EarnedPoints),
		zap.Float64("max", req.MaxPoints))
	return assignment, nil
}

// Edit updates an assignment's title or points.
func (s *AssignmentService) Edit(ctx context.Context, req EditAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid edit payload")
	}
	if req.NewTitle == nil && req.MaxPoints == nil && req.EarnedPoints == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to edit")
	}
	course, err := s.courses.FindByCode(ctx, req.CourseCode, req.Semester)
	if err != nil {
		return nil, mapCourseLookupError(err, req.CourseCode)
	}
	assignment, err := s.resolveAssignment(ctx, course.ID, req.Title)
	if err != nil {
		return nil, err
	}
	if req.NewTitle != nil {
		if *req.NewTitle == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		assignment.Title = *req.NewTitle
	}
	if req.MaxPoints != nil {
		if *req.MaxPoints <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("max points must be positive, got %g", *req.MaxPoints))
		}
		assignment.MaxPoints = *req.MaxPoints
	}
	if req.EarnedPoints != nil {
		if *req.EarnedPoints < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("earned points must not be negative, got %g", *req.EarnedPoints))
		}
		assignment.EarnedPoints = *req.EarnedPoints
	}
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to update assignment")
	}
	s.logger.Info("assignment updated", zap.String("course", req.CourseCode), zap.String("title", assignment.Title))
	return assignment, nil
}

// Move refiles an assignment under another category of the same course.
func (s *AssignmentService) Move(ctx context.Context, courseCode, semester, title, newCategory string) error {
	course, err := s.courses.FindByCode(ctx, courseCode, semester)
	if err != nil {
		return mapCourseLookupError(err, courseCode)
	}
	assignment, err := s.resolveAssignment(ctx, course.ID, title)
	if err != nil {
		return err
	}
	category, err := s.resolveCategory(ctx, course.ID, newCategory)
	if err != nil {
		return err
	}
	if assignment.CategoryID == category.ID {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("assignment %q is already in %q", title, newCategory))
	}
	if err := s.assignments.Move(ctx, assignment.ID, category.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to move assignment")
	}
	s.logger.Info("assignment moved", zap.String("course", courseCode), zap.String("title", title), zap.String("category", newCategory))
	return nil
}

// Remove deletes an assignment.
func (s *AssignmentService) Remove(ctx context.Context, courseCode, semester, title string) error {
	course, err := s.courses.FindByCode(ctx, courseCode, semester)
	if err != nil {
		return mapCourseLookupError(err, courseCode)
	}
	assignment, err := s.resolveAssignment(ctx, course.ID, title)
	if err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, assignment.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to remove assignment")
	}
	s.logger.Info("assignment removed", zap.String("course", courseCode), zap.String("title", title))
	return nil
}

func (s *AssignmentService) resolveCategory(ctx context.Context, courseID, name string) (*models.Category, error) {
	category, err := s.categories.FindByName(ctx, courseID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("category %q not found", name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to find category")
	}
	return category, nil
}

func (s *AssignmentService) resolveAssignment(ctx context.Context, courseID, title string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByTitle(ctx, courseID, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %q not found", title))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to find assignment")
	}
	return assignment, nil
}
