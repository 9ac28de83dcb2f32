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

func TestCategoryRepositoryCreateBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO categories").
		WithArgs(sqlmock.AnyArg(), "course-1", "Homework", 0.5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO categories").
		WithArgs(sqlmock.AnyArg(), "course-1", "Exams", 0.5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	categories := []models.Category{
		{CourseID: "course-1", Name: "Homework", Weight: 0.5},
		{CourseID: "course-1", Name: "Exams", Weight: 0.5},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), categories))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "name", "weight", "created_at", "updated_at", "assignment_count", "avg_score"}).
		AddRow("cat-1", "course-1", "Exams", 0.5, time.Now(), time.Now(), 0, nil).
		AddRow("cat-2", "course-1", "Homework", 0.5, time.Now(), time.Now(), 2, 90.0)
	mock.ExpectQuery("SELECT cat.id, cat.course_id, cat.name").
		WithArgs("course-1").
		WillReturnRows(rows)

	list, err := repo.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].AverageScore, "empty category has no average")
	require.NotNil(t, list[1].AverageScore)
	assert.Equal(t, 90.0, *list[1].AverageScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositorySumWeights(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.8))

	sum, err := repo.SumWeights(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, 0.8, sum)
}

func TestCategoryRepositoryUpdateWeights(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE categories SET weight").
		WithArgs(0.625, sqlmock.AnyArg(), "cat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateWeights(context.Background(), map[string]float64{"cat-1": 0.625}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
