package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

const summaryCachePattern = "reports:summary:*"

type attendanceClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

type attendanceEnrollmentRepository interface {
	ListActiveByClass(ctx context.Context, classID int64) ([]models.EnrollmentDetail, error)
}

type attendanceRepository interface {
	Sheet(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceSheetRow, error)
	UpsertBatch(ctx context.Context, records []models.AttendanceRecord) error
	AbsenceCounts(ctx context.Context, studentID int64) ([]models.ClassAbsence, error)
	StudentHistory(ctx context.Context, studentID int64) ([]models.StudentHistoryRow, error)
}

// AttendanceService implements attendance recording and the student-facing
// absence reads.
type AttendanceService struct {
	classes     attendanceClassRepository
	enrollments attendanceEnrollmentRepository
	attendance  attendanceRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(classes attendanceClassRepository, enrollments attendanceEnrollmentRepository, attendance attendanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		classes:     classes,
		enrollments: enrollments,
		attendance:  attendance,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// Sheet returns the pre-filled recording form for a class and date. Only the
// owning teacher may see it.
func (s *AttendanceService) Sheet(ctx context.Context, claims *models.JWTClaims, classID int64, rawDate string) (*models.AttendanceSheet, error) {
	date, err := parseAttendanceDate(rawDate)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeClass(ctx, claims, classID); err != nil {
		return nil, err
	}

	rows, err := s.attendance.Sheet(ctx, classID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance sheet")
	}

	return &models.AttendanceSheet{ClassID: classID, Date: date, Rows: rows}, nil
}

// Record writes one day's attendance for a class. Active enrollments missing
// from the payload default to absent; any invalid status or foreign
// enrollment rejects the whole batch before a single row is written.
func (s *AttendanceService) Record(ctx context.Context, claims *models.JWTClaims, classID int64, req models.RecordAttendanceRequest) (*models.AttendanceSheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	date, err := parseAttendanceDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeClass(ctx, claims, classID); err != nil {
		return nil, err
	}

	submitted := make(map[int64]models.AttendanceStatus, len(req.Entries))
	for _, entry := range req.Entries {
		status := entry.Status
		if status == "" {
			status = models.AttendanceStatusAbsent
		}
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid attendance status %q", entry.Status))
		}
		submitted[entry.EnrollmentID] = status
	}

	enrollments, err := s.enrollments.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	known := make(map[int64]struct{}, len(enrollments))
	records := make([]models.AttendanceRecord, 0, len(enrollments))
	for _, enrollment := range enrollments {
		known[enrollment.ID] = struct{}{}
		status, ok := submitted[enrollment.ID]
		if !ok {
			status = models.AttendanceStatusAbsent
		}
		records = append(records, models.AttendanceRecord{
			EnrollmentID: enrollment.ID,
			Date:         date,
			Status:       status,
		})
	}

	for id := range submitted {
		if _, ok := known[id]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("enrollment %d is not active in this class", id))
		}
	}

	if err := s.attendance.UpsertBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}

	if err := s.cache.Invalidate(ctx, summaryCachePattern); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("attendance recorded",
		zap.Int64("class_id", classID),
		zap.Time("date", date),
		zap.Int("rows", len(records)))

	return s.Sheet(ctx, claims, classID, date.Format("2006-01-02"))
}

// AbsenceCounts returns per-class absence totals for a student.
func (s *AttendanceService) AbsenceCounts(ctx context.Context, studentID int64) ([]models.ClassAbsence, error) {
	counts, err := s.attendance.AbsenceCounts(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count absences")
	}
	if counts == nil {
		counts = []models.ClassAbsence{}
	}
	return counts, nil
}

// History returns the full per-date attendance history for a student.
func (s *AttendanceService) History(ctx context.Context, studentID int64) ([]models.StudentHistoryRow, error) {
	rows, err := s.attendance.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	if rows == nil {
		rows = []models.StudentHistoryRow{}
	}
	return rows, nil
}

// authorizeClass checks that the class exists and belongs to the teacher in
// the claims. It runs before any attendance data is read or written.
func (s *AttendanceService) authorizeClass(ctx context.Context, claims *models.JWTClaims, classID int64) error {
	if claims == nil || claims.Role != models.RoleTeacher {
		return appErrors.ErrForbidden
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if class.TeacherID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "not authorized for this class")
	}

	return nil
}

// parseAttendanceDate interprets the optional date segment; empty means
// today. Only the calendar day matters, so the clock is truncated.
func parseAttendanceDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return date, nil
}
