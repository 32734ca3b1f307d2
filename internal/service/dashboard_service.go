package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type dashboardClassRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
}

type dashboardAttendanceRepository interface {
	AbsenceCounts(ctx context.Context, studentID int64) ([]models.ClassAbsence, error)
	DistinctDatesByTeacher(ctx context.Context, teacherID int64) ([]time.Time, error)
}

type dashboardEnrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
}

type dashboardUserRepository interface {
	Counts(ctx context.Context) (*models.AdminDashboard, error)
}

// DashboardService assembles the role-specific landing payloads.
type DashboardService struct {
	classes     dashboardClassRepository
	attendance  dashboardAttendanceRepository
	enrollments dashboardEnrollmentRepository
	users       dashboardUserRepository
	logger      *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(classes dashboardClassRepository, attendance dashboardAttendanceRepository, enrollments dashboardEnrollmentRepository, users dashboardUserRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{classes: classes, attendance: attendance, enrollments: enrollments, users: users, logger: logger}
}

// ForTeacher returns the teacher's classes plus the dates they have already
// recorded attendance for.
func (s *DashboardService) ForTeacher(ctx context.Context, teacherID int64) (*models.TeacherDashboard, error) {
	classes, err := s.classes.List(ctx, models.ClassFilter{TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}

	dates, err := s.attendance.DistinctDatesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recorded dates")
	}
	if dates == nil {
		dates = []time.Time{}
	}

	return &models.TeacherDashboard{Classes: classes, PastDates: dates}, nil
}

// ForStudent returns the student's enrollments and per-class absence counts.
func (s *DashboardService) ForStudent(ctx context.Context, studentID int64) (*models.StudentDashboard, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	if enrollments == nil {
		enrollments = []models.EnrollmentDetail{}
	}

	absences, err := s.attendance.AbsenceCounts(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count absences")
	}
	if absences == nil {
		absences = []models.ClassAbsence{}
	}
	return &models.StudentDashboard{Enrollments: enrollments, Absences: absences}, nil
}

// ForAdmin returns entity totals.
func (s *DashboardService) ForAdmin(ctx context.Context) (*models.AdminDashboard, error) {
	counts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entity counts")
	}
	return counts, nil
}
