package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
}

type classEnrollmentRepository interface {
	ListActiveByClass(ctx context.Context, classID int64) ([]models.EnrollmentDetail, error)
}

// ClassService exposes the class catalog.
type ClassService struct {
	classes     classRepository
	enrollments classEnrollmentRepository
}

// NewClassService constructs the service.
func NewClassService(classes classRepository, enrollments classEnrollmentRepository) *ClassService {
	return &ClassService{classes: classes, enrollments: enrollments}
}

// List returns classes, optionally restricted to one teacher or a name search.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	classes, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Get returns one class by id.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Roster returns the active enrollments of a class with student names.
func (s *ClassService) Roster(ctx context.Context, classID int64) ([]models.EnrollmentDetail, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	roster, err := s.enrollments.ListActiveByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	if roster == nil {
		roster = []models.EnrollmentDetail{}
	}
	return roster, nil
}
