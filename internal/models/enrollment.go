package models

import "time"

// EnrollmentStatusActive marks an enrollment that participates in attendance
// taking. The column is free text; this is the only value the application
// writes itself.
const EnrollmentStatusActive = "active"

// Enrollment captures a student's registration in one class. It is the join
// point for all attendance records.
type Enrollment struct {
	ID         int64      `db:"id" json:"id"`
	StudentID  int64      `db:"student_id" json:"student_id"`
	ClassID    int64      `db:"class_id" json:"class_id"`
	Status     *string    `db:"status" json:"status,omitempty"`
	EnrollDate *time.Time `db:"enroll_date" json:"enroll_date,omitempty"`
}

// EnrollmentDetail enriches Enrollment with student and class names.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `db:"student_name" json:"student_name"`
	ClassName   string `db:"class_name" json:"class_name"`
}
