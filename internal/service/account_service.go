package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/repository"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type accountUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	CreateWithProfile(ctx context.Context, params repository.CreateUserParams) error
	Update(ctx context.Context, id int64, username, name string) error
	Delete(ctx context.Context, id int64) error
}

type accountClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// AccountService implements the administrative user directory: listing,
// creation with role profiles, edits and deletion.
type AccountService struct {
	users     accountUserRepository
	classes   accountClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountService constructs the service.
func NewAccountService(users accountUserRepository, classes accountClassRepository, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AccountService{users: users, classes: classes, validator: validate, logger: logger}
}

// List returns a page of accounts with the matching total.
func (s *AccountService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}

	pagination := &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	return users, pagination, nil
}

// Get returns a single account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create provisions an account together with its role profile. Students also
// receive an initial enrollment in the requested class.
func (s *AccountService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	params := repository.CreateUserParams{
		User: &models.User{
			Username:     strings.TrimSpace(req.Username),
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Role:         req.Role,
		},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch req.Role {
	case models.RoleStudent:
		if req.ClassID == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "students require a class_id")
		}
		if _, err := s.classes.FindByID(ctx, *req.ClassID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
		status := models.EnrollmentStatusActive
		params.Student = &models.StudentProfile{
			EnrollmentDate: today,
			GraduationYear: req.GraduationYear,
			MajorField:     req.MajorField,
		}
		params.InitialEnrollment = &models.Enrollment{
			ClassID:    *req.ClassID,
			Status:     &status,
			EnrollDate: &today,
		}
	case models.RoleTeacher:
		params.Teacher = &models.TeacherProfile{
			HireDate:   today,
			Department: req.Department,
			Rank:       req.Rank,
		}
	case models.RoleAdmin:
		params.Admin = &models.AdminProfile{
			AdminLevel:       req.AdminLevel,
			OfficeLocation:   req.OfficeLocation,
			Responsibilities: req.Responsibilities,
		}
	}

	if err := s.users.CreateWithProfile(ctx, params); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user created",
		zap.Int64("user_id", params.User.ID),
		zap.String("role", string(params.User.Role)))
	return params.User, nil
}

// Update edits the mutable fields of an account. The role is immutable; a
// request naming a different role is rejected.
func (s *AccountService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != user.Role {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role changes are not supported")
	}

	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if err := s.users.Update(ctx, id, username, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	user.Username = username
	user.Name = name
	return user, nil
}

// Delete removes an account. Profile rows, enrollments and attendance follow
// through the schema's cascade.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
