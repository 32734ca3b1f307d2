package models

import "time"

// UserRole discriminates which specialization profile applies to a user.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleTeacher, RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentProfile is the 1:1 specialization row for student users.
type StudentProfile struct {
	UserID         int64     `db:"user_id" json:"user_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
	GraduationYear *int      `db:"graduation_year" json:"graduation_year,omitempty"`
	MajorField     *string   `db:"major_field" json:"major_field,omitempty"`
}

// TeacherProfile is the 1:1 specialization row for teacher users.
type TeacherProfile struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	HireDate   time.Time `db:"hire_date" json:"hire_date"`
	Department *string   `db:"department" json:"department,omitempty"`
	Rank       *string   `db:"rank" json:"rank,omitempty"`
}

// AdminProfile is the 1:1 specialization row for admin users.
type AdminProfile struct {
	UserID           int64   `db:"user_id" json:"user_id"`
	AdminLevel       *int    `db:"admin_level" json:"admin_level,omitempty"`
	OfficeLocation   *string `db:"office_location" json:"office_location,omitempty"`
	Responsibilities *string `db:"responsibilities" json:"responsibilities,omitempty"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
