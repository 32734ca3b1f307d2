package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
)

// AttendanceRepository handles persistence for daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Sheet returns the recording form for a class and date: every active
// enrollment with the status already stored for that date, if any.
func (r *AttendanceRepository) Sheet(ctx context.Context, classID int64, date time.Time) ([]models.AttendanceSheetRow, error) {
	const query = `SELECT e.id AS enrollment_id, e.student_id, u.name AS student_name, a.status
FROM enrollments e
JOIN users u ON u.id = e.student_id
LEFT JOIN attendance a ON a.enrollment_id = e.id AND a.date = $2
WHERE e.class_id = $1 AND e.status = $3
ORDER BY u.name ASC`
	var rows []models.AttendanceSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, classID, date, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("attendance sheet: %w", err)
	}
	return rows, nil
}

// UpsertBatch writes one day's sheet in a single transaction. Existing rows
// for (enrollment, date) are overwritten; any failure rolls the whole batch
// back so no partial sheet is ever visible.
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance batch: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	const query = `INSERT INTO attendance (enrollment_id, date, status)
VALUES ($1, $2, $3)
ON CONFLICT (enrollment_id, date)
DO UPDATE SET status = EXCLUDED.status`
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query, rec.EnrollmentID, rec.Date, rec.Status); err != nil {
			return fmt.Errorf("upsert attendance for enrollment %d: %w", rec.EnrollmentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance batch: %w", err)
	}
	committed = true
	return nil
}

// AbsenceCounts returns, for each enrollment of the student, the number of
// absent rows. Enrollments with no attendance at all still appear with zero.
func (r *AttendanceRepository) AbsenceCounts(ctx context.Context, studentID int64) ([]models.ClassAbsence, error) {
	const query = `SELECT c.name AS class_name,
COUNT(a.enrollment_id) FILTER (WHERE a.status = 'absent') AS absences
FROM enrollments e
JOIN classes c ON c.id = e.class_id
LEFT JOIN attendance a ON a.enrollment_id = e.id
WHERE e.student_id = $1
GROUP BY e.id, c.name
ORDER BY c.name ASC`
	var counts []models.ClassAbsence
	if err := r.db.SelectContext(ctx, &counts, query, studentID); err != nil {
		return nil, fmt.Errorf("absence counts: %w", err)
	}
	return counts, nil
}

// DistinctDatesByTeacher lists the dates on which attendance exists for any
// class owned by the teacher, newest first.
func (r *AttendanceRepository) DistinctDatesByTeacher(ctx context.Context, teacherID int64) ([]time.Time, error) {
	const query = `SELECT DISTINCT a.date
FROM attendance a
JOIN enrollments e ON e.id = a.enrollment_id
JOIN classes c ON c.id = e.class_id
WHERE c.teacher_id = $1
ORDER BY a.date DESC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, teacherID); err != nil {
		return nil, fmt.Errorf("distinct attendance dates: %w", err)
	}
	return dates, nil
}

// StudentHistory reads the per-date history for a student from the
// view_student_history view.
func (r *AttendanceRepository) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentHistoryRow, error) {
	const query = `SELECT student_id, student_name, class_name, date, status
FROM view_student_history
WHERE student_id = $1
ORDER BY date DESC`
	var rows []models.StudentHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("student attendance history: %w", err)
	}
	return rows, nil
}
