package models

// Class represents a class taught by a single teacher.
type Class struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	TeacherID   int64   `db:"teacher_id" json:"teacher_id"`
	Description *string `db:"description" json:"description,omitempty"`
	Schedule    *string `db:"schedule" json:"schedule,omitempty"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	TeacherID int64
	Search    string
}
