package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
)

func newClassRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "teacher_id", "description", "schedule"}).
		AddRow(int64(7), "CSC 1001", int64(5), "Description for CSC 1001", "Mon & Wed 10:00-11:30")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, teacher_id, description, schedule FROM classes WHERE id = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	class, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(5), class.TeacherID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery("FROM classes WHERE id = \\$1").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "teacher_id", "description", "schedule"}).
		AddRow(int64(1), "CSC 1001", int64(5), nil, nil).
		AddRow(int64(6), "CSC 1006", int64(5), nil, nil)
	mock.ExpectQuery("FROM classes WHERE 1=1 AND teacher_id = \\$1 ORDER BY name ASC").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	classes, err := repo.List(context.Background(), models.ClassFilter{TeacherID: 5})
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.Nil(t, classes[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}
