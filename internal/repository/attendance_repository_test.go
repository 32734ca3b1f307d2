package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositorySheet(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	present := models.AttendanceStatusPresent
	rows := sqlmock.NewRows([]string{"enrollment_id", "student_id", "student_name", "status"}).
		AddRow(int64(10), int64(101), "Emma Davis", present).
		AddRow(int64(11), int64(102), "Liam Miller", nil)
	mock.ExpectQuery("SELECT e.id AS enrollment_id, e.student_id, u.name AS student_name, a.status").
		WithArgs(int64(7), date, models.EnrollmentStatusActive).
		WillReturnRows(rows)

	sheet, err := repo.Sheet(context.Background(), 7, date)
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	require.NotNil(t, sheet[0].Status)
	require.Equal(t, present, *sheet[0].Status)
	require.Nil(t, sheet[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertBatch(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{EnrollmentID: 10, Date: date, Status: models.AttendanceStatusPresent},
		{EnrollmentID: 11, Date: date, Status: models.AttendanceStatusAbsent},
	}

	upsert := regexp.QuoteMeta("INSERT INTO attendance (enrollment_id, date, status)")
	mock.ExpectBegin()
	mock.ExpectExec(upsert).
		WithArgs(int64(10), date, models.AttendanceStatusPresent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).
		WithArgs(int64(11), date, models.AttendanceStatusAbsent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertBatch(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{EnrollmentID: 10, Date: date, Status: models.AttendanceStatusPresent},
		{EnrollmentID: 11, Date: date, Status: models.AttendanceStatusAbsent},
	}

	upsert := regexp.QuoteMeta("INSERT INTO attendance (enrollment_id, date, status)")
	mock.ExpectBegin()
	mock.ExpectExec(upsert).
		WithArgs(int64(10), date, models.AttendanceStatusPresent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).
		WithArgs(int64(11), date, models.AttendanceStatusAbsent).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	require.Error(t, repo.UpsertBatch(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertBatchEmpty(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.UpsertBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryAbsenceCounts(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"class_name", "absences"}).
		AddRow("CSC 1001", 3).
		AddRow("MAT 1004", 0)
	mock.ExpectQuery("SELECT c.name AS class_name").
		WithArgs(int64(101)).
		WillReturnRows(rows)

	counts, err := repo.AbsenceCounts(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, "CSC 1001", counts[0].ClassName)
	require.Equal(t, 3, counts[0].Absences)
	require.Equal(t, 0, counts[1].Absences)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryDistinctDatesByTeacher(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	newer := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"date"}).AddRow(newer).AddRow(older)
	mock.ExpectQuery("SELECT DISTINCT a.date").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	dates, err := repo.DistinctDatesByTeacher(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []time.Time{newer, older}, dates)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryStudentHistory(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"student_id", "student_name", "class_name", "date", "status"}).
		AddRow(int64(101), "Emma Davis", "CSC 1001", date, models.AttendanceStatusAbsent)
	mock.ExpectQuery("FROM view_student_history").
		WithArgs(int64(101)).
		WillReturnRows(rows)

	history, err := repo.StudentHistory(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.AttendanceStatusAbsent, history[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
