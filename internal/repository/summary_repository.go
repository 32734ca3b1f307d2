package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
)

// SummaryRepository computes the attendance summary. The same aggregation
// exists twice: as a live grouped query and as the view_attendance_summary
// database view. Both take identical filters and must return identical
// numbers; tests cross-check them.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs the repository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Live aggregates attendance directly from the base tables.
func (r *SummaryRepository) Live(ctx context.Context, filter models.SummaryFilter) ([]models.SummaryRow, error) {
	base := `SELECT c.id AS class_id, c.name AS class_name, u.name AS student_name,
SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) AS present_count,
COUNT(*) AS total_count,
ROUND(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END)::numeric / COUNT(*) * 100.0, 2) AS attendance_percentage
FROM attendance a
JOIN enrollments e ON e.id = a.enrollment_id
JOIN classes c ON c.id = e.class_id
JOIN users u ON u.id = e.student_id`

	where, args := summaryConditions(filter, "c.id", "u.name")
	query := base
	if where != "" {
		query += " WHERE " + where
	}
	query += " GROUP BY c.id, c.name, u.name ORDER BY c.name ASC, u.name ASC"

	var rows []models.SummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("live attendance summary: %w", err)
	}
	return rows, nil
}

// FromView reads the same aggregation from view_attendance_summary.
func (r *SummaryRepository) FromView(ctx context.Context, filter models.SummaryFilter) ([]models.SummaryRow, error) {
	base := `SELECT class_id, class_name, student_name, present_count, total_count, attendance_percentage
FROM view_attendance_summary`

	where, args := summaryConditions(filter, "class_id", "student_name")
	query := base
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY class_name ASC, student_name ASC"

	var rows []models.SummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attendance summary view: %w", err)
	}
	return rows, nil
}

// summaryConditions builds the shared WHERE clause so both paths filter
// identically: exact class id, case-insensitive substring on student name.
func summaryConditions(filter models.SummaryFilter, classCol, studentCol string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ClassID != 0 {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", classCol, len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.StudentName != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", studentCol, len(args)+1))
		args = append(args, "%"+filter.StudentName+"%")
	}

	return strings.Join(conditions, " AND "), args
}
