package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value. This is the single
// application-side source of truth; the database CHECK constraint mirrors it.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one daily presence/absence outcome for one enrollment.
// (enrollment_id, date) is the primary key.
type AttendanceRecord struct {
	EnrollmentID int64            `db:"enrollment_id" json:"enrollment_id"`
	Date         time.Time        `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
}

// AttendanceEntry is one submitted status in a recording request.
type AttendanceEntry struct {
	EnrollmentID int64            `json:"enrollment_id" validate:"required"`
	Status       AttendanceStatus `json:"status"`
}

// RecordAttendanceRequest is the batch payload for a class and date. Active
// enrollments missing from Entries default to absent.
type RecordAttendanceRequest struct {
	Date    string            `json:"date"`
	Entries []AttendanceEntry `json:"entries" validate:"dive"`
}

// AttendanceSheetRow is one line of the pre-filled recording form: an active
// enrollment plus any status already stored for the date.
type AttendanceSheetRow struct {
	EnrollmentID int64             `db:"enrollment_id" json:"enrollment_id"`
	StudentID    int64             `db:"student_id" json:"student_id"`
	StudentName  string            `db:"student_name" json:"student_name"`
	Status       *AttendanceStatus `db:"status" json:"status,omitempty"`
}

// AttendanceSheet is the recording form for one class and date.
type AttendanceSheet struct {
	ClassID int64                `json:"class_id"`
	Date    time.Time            `json:"date"`
	Rows    []AttendanceSheetRow `json:"rows"`
}

// ClassAbsence is the per-class absence count for a student.
type ClassAbsence struct {
	ClassName string `db:"class_name" json:"class_name"`
	Absences  int    `db:"absences" json:"absences"`
}

// StudentHistoryRow is one entry of the per-date attendance history view.
type StudentHistoryRow struct {
	StudentID   int64            `db:"student_id" json:"student_id"`
	StudentName string           `db:"student_name" json:"student_name"`
	ClassName   string           `db:"class_name" json:"class_name"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
}
