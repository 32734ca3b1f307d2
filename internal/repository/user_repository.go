package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/attendease/attendease-api/internal/models"
)

// UserRepository provides database access for users and their specialization
// profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, name, role, created_at, updated_at FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, username, password_hash, name, role, created_at, updated_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	baseQuery := `FROM users WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(username) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, username, password_hash, name, role, created_at, updated_at %s ORDER BY id ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// CreateUserParams groups the rows written when an account is created.
// Exactly one profile pointer must be set and it must match User.Role; the
// transaction guarantees a user is never visible without its profile.
type CreateUserParams struct {
	User              *models.User
	Student           *models.StudentProfile
	Teacher           *models.TeacherProfile
	Admin             *models.AdminProfile
	InitialEnrollment *models.Enrollment
}

// CreateWithProfile inserts the user, its single specialization profile and,
// for students, the initial enrollment inside one transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, params CreateUserParams) error {
	if params.User == nil {
		return fmt.Errorf("create user: user required")
	}

	profiles := 0
	if params.Student != nil {
		profiles++
	}
	if params.Teacher != nil {
		profiles++
	}
	if params.Admin != nil {
		profiles++
	}
	if profiles != 1 {
		return fmt.Errorf("create user: exactly one profile required, got %d", profiles)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	user := params.User
	user.CreatedAt = now
	user.UpdatedAt = now

	const userQuery = `INSERT INTO users (username, password_hash, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowxContext(ctx, userQuery, user.Username, user.PasswordHash, user.Name, user.Role, user.CreatedAt, user.UpdatedAt).Scan(&user.ID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	switch {
	case params.Student != nil:
		params.Student.UserID = user.ID
		const q = `INSERT INTO student_profiles (user_id, enrollment_date, graduation_year, major_field) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, q, params.Student.UserID, params.Student.EnrollmentDate, params.Student.GraduationYear, params.Student.MajorField); err != nil {
			return fmt.Errorf("insert student profile: %w", err)
		}
	case params.Teacher != nil:
		params.Teacher.UserID = user.ID
		const q = `INSERT INTO teacher_profiles (user_id, hire_date, department, rank) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, q, params.Teacher.UserID, params.Teacher.HireDate, params.Teacher.Department, params.Teacher.Rank); err != nil {
			return fmt.Errorf("insert teacher profile: %w", err)
		}
	case params.Admin != nil:
		params.Admin.UserID = user.ID
		const q = `INSERT INTO admin_profiles (user_id, admin_level, office_location, responsibilities) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, q, params.Admin.UserID, params.Admin.AdminLevel, params.Admin.OfficeLocation, params.Admin.Responsibilities); err != nil {
			return fmt.Errorf("insert admin profile: %w", err)
		}
	}

	if params.InitialEnrollment != nil {
		enr := params.InitialEnrollment
		enr.StudentID = user.ID
		const q = `INSERT INTO enrollments (student_id, class_id, status, enroll_date) VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRowxContext(ctx, q, enr.StudentID, enr.ClassID, enr.Status, enr.EnrollDate).Scan(&enr.ID); err != nil {
			return fmt.Errorf("insert initial enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	committed = true
	return nil
}

// Update changes username and name only. Specialization profiles are never
// touched here; role changes are rejected upstream.
func (r *UserRepository) Update(ctx context.Context, id int64, username, name string) error {
	const query = `UPDATE users SET username = $2, name = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, username, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the user row. The specialization profile and everything
// owned transitively (classes, enrollments, attendance) go with it through
// the ON DELETE CASCADE chain.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Counts returns entity totals for the admin dashboard.
func (r *UserRepository) Counts(ctx context.Context) (*models.AdminDashboard, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM users) AS users,
(SELECT COUNT(*) FROM classes) AS classes,
(SELECT COUNT(*) FROM enrollments) AS enrollments`
	var counts models.AdminDashboard
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("entity counts: %w", err)
	}
	return &counts, nil
}
