package models

// SummaryRow is one (class, student) group of the attendance summary:
// present count, total count and the percentage rounded to two decimals.
type SummaryRow struct {
	ClassID              int64   `db:"class_id" json:"class_id"`
	ClassName            string  `db:"class_name" json:"class_name"`
	StudentName          string  `db:"student_name" json:"student_name"`
	PresentCount         int     `db:"present_count" json:"present_count"`
	TotalCount           int     `db:"total_count" json:"total_count"`
	AttendancePercentage float64 `db:"attendance_percentage" json:"attendance_percentage"`
}

// SummaryFilter scopes the summary report. ClassID zero means all classes;
// StudentName matches case-insensitively as a substring.
type SummaryFilter struct {
	ClassID     int64
	StudentName string
}

// ReportFormat selects the download encoding of the summary report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)
