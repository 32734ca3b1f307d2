package models

import "time"

// TeacherDashboard lists the teacher's classes and the distinct dates on
// which attendance was already recorded for any of them.
type TeacherDashboard struct {
	Classes   []Class     `json:"classes"`
	PastDates []time.Time `json:"past_dates"`
}

// StudentDashboard lists the student's enrollments and per-class absence
// counts.
type StudentDashboard struct {
	Enrollments []EnrollmentDetail `json:"enrollments"`
	Absences    []ClassAbsence     `json:"absences"`
}

// AdminDashboard carries entity counts for the admin landing page.
type AdminDashboard struct {
	Users       int `db:"users" json:"users"`
	Classes     int `db:"classes" json:"classes"`
	Enrollments int `db:"enrollments" json:"enrollments"`
}
