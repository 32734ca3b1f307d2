package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/repository"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type accountRepoStub struct {
	byID      map[int64]*models.User
	created   []repository.CreateUserParams
	createErr error
	updateErr error
	deleteErr error
}

func (s *accountRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *accountRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	users := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (s *accountRepoStub) CreateWithProfile(ctx context.Context, params repository.CreateUserParams) error {
	if s.createErr != nil {
		return s.createErr
	}
	params.User.ID = int64(len(s.created) + 100)
	s.created = append(s.created, params)
	return nil
}

func (s *accountRepoStub) Update(ctx context.Context, id int64, username, name string) error {
	return s.updateErr
}

func (s *accountRepoStub) Delete(ctx context.Context, id int64) error {
	return s.deleteErr
}

func newAccountFixture() (*AccountService, *accountRepoStub) {
	users := &accountRepoStub{byID: map[int64]*models.User{
		1: {ID: 1, Username: "10001", Name: "Alice Smith", Role: models.RoleTeacher},
	}}
	classes := &classRepoStub{classes: map[int64]*models.Class{
		7: {ID: 7, Name: "CSC 1001", TeacherID: 5},
	}}
	return NewAccountService(users, classes, nil, nil), users
}

func TestAccountServiceCreateStudent(t *testing.T) {
	svc, users := newAccountFixture()

	classID := int64(7)
	user, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "11051",
		Password: "secret",
		Name:     "Noah Wilson",
		Role:     models.RoleStudent,
		ClassID:  &classID,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, user.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

	require.Len(t, users.created, 1)
	params := users.created[0]
	require.NotNil(t, params.Student)
	require.Nil(t, params.Teacher)
	require.Nil(t, params.Admin)
	require.NotNil(t, params.InitialEnrollment)
	require.Equal(t, int64(7), params.InitialEnrollment.ClassID)
	require.Equal(t, models.EnrollmentStatusActive, *params.InitialEnrollment.Status)
}

func TestAccountServiceCreateStudentRequiresClass(t *testing.T) {
	svc, users := newAccountFixture()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "11051",
		Password: "secret",
		Name:     "Noah Wilson",
		Role:     models.RoleStudent,
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Empty(t, users.created)

	missing := int64(404)
	_, err = svc.Create(context.Background(), models.CreateUserRequest{
		Username: "11051",
		Password: "secret",
		Name:     "Noah Wilson",
		Role:     models.RoleStudent,
		ClassID:  &missing,
	})
	appErr = appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	require.Empty(t, users.created)
}

func TestAccountServiceCreateTeacherHasNoEnrollment(t *testing.T) {
	svc, users := newAccountFixture()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "10006",
		Password: "secret",
		Name:     "Frank Moore",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.NotNil(t, users.created[0].Teacher)
	require.Nil(t, users.created[0].InitialEnrollment)
}

func TestAccountServiceCreateRejectsInvalidRole(t *testing.T) {
	svc, _ := newAccountFixture()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "x",
		Password: "secret",
		Name:     "X",
		Role:     models.UserRole("superuser"),
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAccountServiceCreateDuplicateUsername(t *testing.T) {
	svc, users := newAccountFixture()
	users.createErr = &pq.Error{Code: "23505"}

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "00001",
		Password: "secret",
		Name:     "Duplicate",
		Role:     models.RoleAdmin,
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAccountServiceUpdateRejectsRoleChange(t *testing.T) {
	svc, _ := newAccountFixture()

	_, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{
		Username: "10001",
		Name:     "Alice Smith",
		Role:     models.RoleAdmin,
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Equal(t, "role changes are not supported", appErr.Message)
}

func TestAccountServiceUpdate(t *testing.T) {
	svc, _ := newAccountFixture()

	user, err := svc.Update(context.Background(), 1, models.UpdateUserRequest{
		Username: "10001",
		Name:     "Alice Johnson",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.Equal(t, "Alice Johnson", user.Name)
}

func TestAccountServiceUpdateMissingUser(t *testing.T) {
	svc, _ := newAccountFixture()

	_, err := svc.Update(context.Background(), 404, models.UpdateUserRequest{
		Username: "ghost",
		Name:     "Ghost",
		Role:     models.RoleTeacher,
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAccountServiceDeleteMissing(t *testing.T) {
	svc, users := newAccountFixture()
	users.deleteErr = sql.ErrNoRows

	err := svc.Delete(context.Background(), 404)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAccountServiceListClampsPagination(t *testing.T) {
	svc, _ := newAccountFixture()

	_, pagination, err := svc.List(context.Background(), models.UserFilter{Page: -1, PageSize: 10000})
	require.NoError(t, err)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 20, pagination.PageSize)
	require.Equal(t, 1, pagination.TotalCount)
}
