package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type classRepoStub struct {
	classes map[int64]*models.Class
}

func (s *classRepoStub) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	class, ok := s.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return class, nil
}

type enrollmentRepoStub struct {
	byClass map[int64][]models.EnrollmentDetail
}

func (s *enrollmentRepoStub) ListActiveByClass(ctx context.Context, classID int64) ([]models.EnrollmentDetail, error) {
	return s.byClass[classID], nil
}

type attendanceRepoStub struct {
	sheet    []models.AttendanceSheetRow
	upserted [][]models.AttendanceRecord
	absences []models.ClassAbsence
	history  []models.StudentHistoryRow
}

func (s *attendanceRepoStub) Sheet(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceSheetRow, error) {
	return s.sheet, nil
}

func (s *attendanceRepoStub) UpsertBatch(ctx context.Context, records []models.AttendanceRecord) error {
	s.upserted = append(s.upserted, records)
	return nil
}

func (s *attendanceRepoStub) AbsenceCounts(ctx context.Context, studentID int64) ([]models.ClassAbsence, error) {
	return s.absences, nil
}

func (s *attendanceRepoStub) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentHistoryRow, error) {
	return s.history, nil
}

func enrollmentDetail(id int64, name string) models.EnrollmentDetail {
	return models.EnrollmentDetail{
		Enrollment:  models.Enrollment{ID: id, ClassID: 7},
		StudentName: name,
		ClassName:   "CSC 1001",
	}
}

func newAttendanceFixture() (*AttendanceService, *attendanceRepoStub) {
	classes := &classRepoStub{classes: map[int64]*models.Class{
		7: {ID: 7, Name: "CSC 1001", TeacherID: 5},
	}}
	enrollments := &enrollmentRepoStub{byClass: map[int64][]models.EnrollmentDetail{
		7: {
			enrollmentDetail(10, "Ava Garcia"),
			enrollmentDetail(11, "Emma Davis"),
			enrollmentDetail(12, "Liam Miller"),
		},
	}}
	attendance := &attendanceRepoStub{}
	svc := NewAttendanceService(classes, enrollments, attendance, nil, nil, nil)
	return svc, attendance
}

func teacherClaims(userID int64) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleTeacher}
}

func TestAttendanceServiceRecordDefaultsOmittedToAbsent(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	req := models.RecordAttendanceRequest{
		Date: "2026-03-02",
		Entries: []models.AttendanceEntry{
			{EnrollmentID: 10, Status: models.AttendanceStatusPresent},
			{EnrollmentID: 11, Status: models.AttendanceStatusPresent},
		},
	}

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, req)
	require.NoError(t, err)
	require.Len(t, attendance.upserted, 1)

	records := attendance.upserted[0]
	require.Len(t, records, 3)

	byEnrollment := make(map[int64]models.AttendanceStatus, len(records))
	for _, rec := range records {
		byEnrollment[rec.EnrollmentID] = rec.Status
		require.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), rec.Date)
	}
	require.Equal(t, models.AttendanceStatusPresent, byEnrollment[10])
	require.Equal(t, models.AttendanceStatusPresent, byEnrollment[11])
	require.Equal(t, models.AttendanceStatusAbsent, byEnrollment[12])
}

func TestAttendanceServiceRecordEmptyStatusMeansAbsent(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	req := models.RecordAttendanceRequest{
		Date: "2026-03-02",
		Entries: []models.AttendanceEntry{
			{EnrollmentID: 10},
		},
	}

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, req)
	require.NoError(t, err)

	records := attendance.upserted[0]
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		require.Equal(t, models.AttendanceStatusAbsent, rec.Status)
		ids = append(ids, rec.EnrollmentID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	require.Equal(t, []int64{10, 11, 12}, ids)
}

func TestAttendanceServiceRecordRejectsInvalidStatus(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	req := models.RecordAttendanceRequest{
		Date: "2026-03-02",
		Entries: []models.AttendanceEntry{
			{EnrollmentID: 10, Status: models.AttendanceStatus("late")},
		},
	}

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, req)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Empty(t, attendance.upserted)
}

func TestAttendanceServiceRecordRejectsForeignEnrollment(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	req := models.RecordAttendanceRequest{
		Date: "2026-03-02",
		Entries: []models.AttendanceEntry{
			{EnrollmentID: 999, Status: models.AttendanceStatusPresent},
		},
	}

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, req)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Empty(t, attendance.upserted)
}

func TestAttendanceServiceRecordRejectsOtherTeachersClass(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	req := models.RecordAttendanceRequest{Date: "2026-03-02"}

	_, err := svc.Record(context.Background(), teacherClaims(99), 7, req)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	require.Empty(t, attendance.upserted)
}

func TestAttendanceServiceRecordRejectsMissingClass(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.Record(context.Background(), teacherClaims(5), 404, models.RecordAttendanceRequest{Date: "2026-03-02"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAttendanceServiceRecordRejectsBadDate(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, models.RecordAttendanceRequest{Date: "02-03-2026"})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceRecordEmptyDateMeansToday(t *testing.T) {
	svc, attendance := newAttendanceFixture()

	_, err := svc.Record(context.Background(), teacherClaims(5), 7, models.RecordAttendanceRequest{})
	require.NoError(t, err)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, rec := range attendance.upserted[0] {
		require.Equal(t, today, rec.Date)
	}
}

func TestAttendanceServiceSheetChecksOwnership(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.Sheet(context.Background(), teacherClaims(99), 7, "2026-03-02")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	_, err = svc.Sheet(context.Background(), &models.JWTClaims{UserID: 5, Role: models.RoleStudent}, 7, "2026-03-02")
	appErr = appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAttendanceServiceAbsenceCounts(t *testing.T) {
	classes := &classRepoStub{classes: map[int64]*models.Class{}}
	enrollments := &enrollmentRepoStub{}
	attendance := &attendanceRepoStub{absences: []models.ClassAbsence{
		{ClassName: "CSC 1001", Absences: 3},
	}}
	svc := NewAttendanceService(classes, enrollments, attendance, nil, nil, nil)

	counts, err := svc.AbsenceCounts(context.Background(), 101)
	require.NoError(t, err)
	require.Equal(t, 3, counts[0].Absences)

	attendance.absences = nil
	counts, err = svc.AbsenceCounts(context.Background(), 101)
	require.NoError(t, err)
	require.NotNil(t, counts)
	require.Empty(t, counts)
}
