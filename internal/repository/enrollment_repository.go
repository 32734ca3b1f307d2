package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveByClass returns the active enrollments of a class with student
// and class names, ordered by student name. This is the roster attendance
// recording iterates over.
func (r *EnrollmentRepository) ListActiveByClass(ctx context.Context, classID int64) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.class_id, e.status, e.enroll_date,
u.name AS student_name, c.name AS class_name
FROM enrollments e
JOIN users u ON u.id = e.student_id
JOIN classes c ON c.id = e.class_id
WHERE e.class_id = $1 AND e.status = $2
ORDER BY u.name ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, classID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns all enrollments of a student with class names.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.class_id, e.status, e.enroll_date,
u.name AS student_name, c.name AS class_name
FROM enrollments e
JOIN users u ON u.id = e.student_id
JOIN classes c ON c.id = e.class_id
WHERE e.student_id = $1
ORDER BY c.name ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// Create inserts a new enrollment and fills in the generated id.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (student_id, class_id, status, enroll_date) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, enrollment.StudentID, enrollment.ClassID, enrollment.Status, enrollment.EnrollDate).Scan(&enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
