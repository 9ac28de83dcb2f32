package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astanton/gradebook/internal/models"
	"github.com/astanton/gradebook/internal/repository"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

type courseRepoStub struct {
	created    *models.Course
	exists     bool
	findResult *models.Course
	findErr    error
	listRows   []models.CourseListRow
	loaded     *models.Course
	deletedID  string
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-1"
	s.created = course
	return nil
}

func (s *courseRepoStub) ExistsByCodeAndSemester(ctx context.Context, code, semester string) (bool, error) {
	return s.exists, nil
}

func (s *courseRepoStub) FindByCode(ctx context.Context, code, semester string) (*models.Course, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findResult, nil
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListRow, error) {
	return s.listRows, nil
}

func (s *courseRepoStub) Load(ctx context.Context, id string) (*models.Course, error) {
	return s.loaded, nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

func TestCourseServiceAdd(t *testing.T) {
	repo := &courseRepoStub{}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Add(context.Background(), AddCourseRequest{Code: "CHM343", Title: "Organic Chemistry", Semester: "Fall 2025", CreditHours: 4})
	require.NoError(t, err)
	require.Equal(t, "CHM343", course.Code)
	require.Equal(t, 4, course.CreditHours)
	require.NotNil(t, repo.created)
}

func TestCourseServiceAddDefaultsCreditHours(t *testing.T) {
	repo := &courseRepoStub{}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Add(context.Background(), AddCourseRequest{Code: "CHM343", Title: "Organic Chemistry", Semester: "Fall 2025"})
	require.NoError(t, err)
	require.Equal(t, 3, course.CreditHours)
}

func TestCourseServiceAddRejectsMissingFields(t *testing.T) {
	svc := NewCourseService(&courseRepoStub{}, nil, nil)

	_, err := svc.Add(context.Background(), AddCourseRequest{Code: "CHM343"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCourseServiceAddConflict(t *testing.T) {
	svc := NewCourseService(&courseRepoStub{exists: true}, nil, nil)

	_, err := svc.Add(context.Background(), AddCourseRequest{Code: "CHM343", Title: "Organic Chemistry", Semester: "Fall 2025"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCourseServiceGetNotFound(t *testing.T) {
	svc := NewCourseService(&courseRepoStub{findErr: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), "CHM343", "")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestCourseServiceGetAmbiguous(t *testing.T) {
	svc := NewCourseService(&courseRepoStub{findErr: repository.ErrAmbiguousCourse}, nil, nil)

	_, err := svc.Get(context.Background(), "CHM343", "")
	require.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCourseServiceRemove(t *testing.T) {
	repo := &courseRepoStub{findResult: &models.Course{ID: "course-1", Code: "CHM343", Semester: "Fall 2025"}}
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.Remove(context.Background(), "CHM343", "Fall 2025"))
	require.Equal(t, "course-1", repo.deletedID)
}
