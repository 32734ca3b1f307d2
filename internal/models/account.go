package models

// CreateUserRequest is the admin payload for creating a user plus its
// matching specialization profile. ClassID is required for students and
// selects the initial enrollment.
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,max=50"`
	Password string   `json:"password" validate:"required,min=4"`
	Name     string   `json:"name" validate:"required,max=100"`
	Role     UserRole `json:"role" validate:"required"`

	ClassID *int64 `json:"class_id,omitempty"`

	// Optional profile fields per role.
	GraduationYear   *int    `json:"graduation_year,omitempty"`
	MajorField       *string `json:"major_field,omitempty"`
	Department       *string `json:"department,omitempty"`
	Rank             *string `json:"rank,omitempty"`
	AdminLevel       *int    `json:"admin_level,omitempty"`
	OfficeLocation   *string `json:"office_location,omitempty"`
	Responsibilities *string `json:"responsibilities,omitempty"`
}

// UpdateUserRequest is the admin payload for editing a user. Role is
// accepted for form symmetry but must equal the stored role; role changes
// are rejected rather than leaving a stale specialization profile behind.
type UpdateUserRequest struct {
	Username string   `json:"username" validate:"required,max=50"`
	Name     string   `json:"name" validate:"required,max=100"`
	Role     UserRole `json:"role" validate:"required"`
}
