package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astanton/gradebook/internal/models"
)

func TestAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), "course-1", "cat-1", "HW1", 100.0, 90.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{CourseID: "course-1", CategoryID: "cat-1", Title: "HW1", MaxPoints: 100, EarnedPoints: 90}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero(), "create stamps the entry time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindByTitle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "category_id", "title", "max_points", "earned_points", "created_at", "updated_at"}).
		AddRow("a-1", "course-1", "cat-1", "HW1", 100.0, 90.0, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, course_id, category_id, title").
		WithArgs("course-1", "HW1").
		WillReturnRows(rows)

	assignment, err := repo.FindByTitle(context.Background(), "course-1", "HW1")
	require.NoError(t, err)
	assert.Equal(t, 90.0, assignment.EarnedPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryMove(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE assignments SET category_id").
		WithArgs("cat-2", sqlmock.AnyArg(), "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Move(context.Background(), "a-1", "cat-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE assignments SET title").
		WithArgs("HW1 regrade", 100.0, 95.0, sqlmock.AnyArg(), "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assignment := &models.Assignment{ID: "a-1", Title: "HW1 regrade", MaxPoints: 100, EarnedPoints: 95}
	require.NoError(t, repo.Update(context.Background(), assignment))
	assert.NoError(t, mock.ExpectationsWereMet())
}
