package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astanton/gradebook/internal/models"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

type assignmentRepoStub struct {
	created    *models.Assignment
	findResult *models.Assignment
	findErr    error
	updated    *models.Assignment
	movedID    string
	movedCatID string
	deletedID  string
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = "assignment-1"
	s.created = assignment
	return nil
}

func (s *assignmentRepoStub) FindByTitle(ctx context.Context, courseID, title string) (*models.Assignment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findResult, nil
}

func (s *assignmentRepoStub) Update(ctx context.Context, assignment *models.Assignment) error {
	s.updated = assignment
	return nil
}

func (s *assignmentRepoStub) Move(ctx context.Context, id, categoryID string) error {
	s.movedID = id
	s.movedCatID = categoryID
	return nil
}

func (s *assignmentRepoStub) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

type categoryResolverStub struct {
	category *models.Category
	err      error
}

func (s *categoryResolverStub) FindByName(ctx context.Context, courseID, name string) (*models.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.category, nil
}

func newAssignmentServiceForTest(assignments *assignmentRepoStub, category *models.Category) *AssignmentService {
	return NewAssignmentService(assignments, &categoryResolverStub{category: category}, &courseResolverStub{course: testCourse()}, nil, nil)
}

func TestAssignmentServiceAdd(t *testing.T) {
	repo := &assignmentRepoStub{}
	svc := newAssignmentServiceForTest(repo, &models.Category{ID: "cat-1", Name: "Exams"})

	assignment, err := svc.Add(context.Background(), AddAssignmentRequest{
		CourseCode: "CHM343", Category: "Exams", Title: "Midterm 1", MaxPoints: 100, EarnedPoints: 92,
	})
	require.NoError(t, err)
	require.Equal(t, "course-1", assignment.CourseID)
	require.Equal(t, "cat-1", assignment.CategoryID)
	require.Equal(t, 92.0, repo.created.EarnedPoints)
}

func TestAssignmentServiceAddAllowsBonus(t *testing.T) {
	repo := &assignmentRepoStub{}
	svc := newAssignmentServiceForTest(repo, &models.Category{ID: "cat-1", Name: "Exams"})

	_, err := svc.Add(context.Background(), AddAssignmentRequest{
		CourseCode: "CHM343", Category: "Exams", Title: "Quiz", MaxPoints: 10, EarnedPoints: 12,
	})
	require.NoError(t, err)
}

func TestAssignmentServiceAddRejectsNonPositiveMax(t *testing.T) {
	svc := newAssignmentServiceForTest(&assignmentRepoStub{}, &models.Category{ID: "cat-1"})

	_, err := svc.Add(context.Background(), AddAssignmentRequest{
		CourseCode: "CHM343", Category: "Exams", Title: "Quiz", MaxPoints: 0, EarnedPoints: 5,
	})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestAssignmentServiceAddCategoryNotFound(t *testing.T) {
	svc := NewAssignmentService(&assignmentRepoStub{}, &categoryResolverStub{err: sql.ErrNoRows}, &courseResolverStub{course: testCourse()}, nil, nil)

	_, err := svc.Add(context.Background(), AddAssignmentRequest{
		CourseCode: "CHM343", Category: "Nope", Title: "Quiz", MaxPoints: 10, EarnedPoints: 5,
	})
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestAssignmentServiceEdit(t *testing.T) {
	repo := &assignmentRepoStub{findResult: &models.Assignment{ID: "assignment-1", Title: "Quiz", MaxPoints: 10, EarnedPoints: 7}}
	svc := newAssignmentServiceForTest(repo, nil)

	earned := 9.0
	updated, err := svc.Edit(context.Background(), EditAssignmentRequest{
		CourseCode: "CHM343", Title: "Quiz", EarnedPoints: &earned,
	})
	require.NoError(t, err)
	require.Equal(t, 9.0, updated.EarnedPoints)
	require.Equal(t, 10.0, updated.MaxPoints)
	require.NotNil(t, repo.updated)
}

func TestAssignmentServiceEditNothingToEdit(t *testing.T) {
	svc := newAssignmentServiceForTest(&assignmentRepoStub{}, nil)

	_, err := svc.Edit(context.Background(), EditAssignmentRequest{CourseCode: "CHM343", Title: "Quiz"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestAssignmentServiceEditRejectsBadPoints(t *testing.T) {
	repo := &assignmentRepoStub{findResult: &models.Assignment{ID: "assignment-1", Title: "Quiz", MaxPoints: 10}}
	svc := newAssignmentServiceForTest(repo, nil)

	bad := -1.0
	_, err := svc.Edit(context.Background(), EditAssignmentRequest{CourseCode: "CHM343", Title: "Quiz", EarnedPoints: &bad})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	require.Nil(t, repo.updated)
}

func TestAssignmentServiceMove(t *testing.T) {
	repo := &assignmentRepoStub{findResult: &models.Assignment{ID: "assignment-1", CategoryID: "cat-1", Title: "Quiz"}}
	svc := newAssignmentServiceForTest(repo, &models.Category{ID: "cat-2", Name: "Labs"})

	require.NoError(t, svc.Move(context.Background(), "CHM343", "", "Quiz", "Labs"))
	require.Equal(t, "assignment-1", repo.movedID)
	require.Equal(t, "cat-2", repo.movedCatID)
}

func TestAssignmentServiceMoveSameCategory(t *testing.T) {
	repo := &assignmentRepoStub{findResult: &models.Assignment{ID: "assignment-1", CategoryID: "cat-1", Title: "Quiz"}}
	svc := newAssignmentServiceForTest(repo, &models.Category{ID: "cat-1", Name: "Exams"})

	err := svc.Move(context.Background(), "CHM343", "", "Quiz", "Exams")
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	require.Empty(t, repo.movedID)
}

func TestAssignmentServiceRemove(t *testing.T) {
	repo := &assignmentRepoStub{findResult: &models.Assignment{ID: "assignment-1", Title: "Quiz"}}
	svc := newAssignmentServiceForTest(repo, nil)

	require.NoError(t, svc.Remove(context.Background(), "CHM343", "", "Quiz"))
	require.Equal(t, "assignment-1", repo.deletedID)
}

func TestAssignmentServiceRemoveNotFound(t *testing.T) {
	svc := newAssignmentServiceForTest(&assignmentRepoStub{findErr: sql.ErrNoRows}, nil)

	err := svc.Remove(context.Background(), "CHM343", "", "Quiz")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
