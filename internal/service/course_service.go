package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/astanton/gradebook/internal/models"
	"github.com/astanton/gradebook/internal/repository"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

type courseRepo interface {
	Create(ctx context.Context, course *models.Course) error
	ExistsByCodeAndSemester(ctx context.Context, code, semester string) (bool, error)
	FindByCode(ctx context.Context, code, semester string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListRow, error)
	Load(ctx context.Context, id string) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// AddCourseRequest is the payload for creating a course.
type AddCourseRequest struct {
	Code        string `validate:"required"`
	Title       string `validate:"required"`
	Semester    string `validate:"required"`
	CreditHours int    `validate:"gte=0"`
}

// CourseService orchestrates course lifecycle operations.
type CourseService struct {
	courses   courseRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses courseRepo, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, validator: validate, logger: logger}
}

// Add creates a new course. The code is immutable once assigned and must be
// unique within its semester.
func (s *CourseService) Add(ctx context.Context, req AddCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Exit, "invalid course payload")
	}
	exists, err := s.courses.ExistsByCodeAndSemester(ctx, req.Code, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to check course")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course %s already exists for %s", req.Code, req.Semester))
	}
	course := &models.Course{Code: req.Code, Title: req.Title, Semester: req.Semester, CreditHours: req.CreditHours}
	if course.CreditHours == 0 {
		course.CreditHours = 3
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to create course")
	}
	s.logger.Info("course added", zap.String("code", course.Code), zap.String("semester", course.Semester))
	return course, nil
}

// List returns courses with assignment counts, optionally filtered by semester.
func (s *CourseService) List(ctx context.Context, semester string) ([]models.CourseListRow, error) {
	rows, err := s.courses.List(ctx, models.CourseFilter{Semester: semester})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list courses")
	}
	return rows, nil
}

// Get resolves a course by code, requiring a semester when the code exists
// in more than one.
func (s *CourseService) Get(ctx context.Context, code, semester string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code, semester)
	if err != nil {
		return nil, mapCourseLookupError(err, code)
	}
	return course, nil
}

// Load returns a course with categories and assignments fully materialized.
func (s *CourseService) Load(ctx context.Context, code, semester string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code, semester)
	if err != nil {
		return nil, mapCourseLookupError(err, code)
	}
	loaded, err := s.courses.Load(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to load course")
	}
	return loaded, nil
}

// Remove deletes a course and everything filed under it.
func (s *CourseService) Remove(ctx context.Context, code, semester string) error {
	course, err := s.courses.FindByCode(ctx, code, semester)
	if err != nil {
		return mapCourseLookupError(err, code)
	}
	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to remove course")
	}
	s.logger.Info("course removed", zap.String("code", code), zap.String("semester", course.Semester))
	return nil
}

func mapCourseLookupError(err error, code string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not found", code))
	}
	if errors.Is(err, repository.ErrAmbiguousCourse) {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course %s exists in multiple semesters, specify one", code))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to find course")
}
