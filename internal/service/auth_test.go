package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Register
// ============================================================================

func TestRegister_Success(t *testing.T) {
	var created *models.User
	var createdPassword string
	var assignedRole models.RoleName

	users := &mockUserRepository{
		createFunc: func(ctx context.Context, user *models.User, password string) error {
			created = user
			createdPassword = password
			return nil
		},
		addToRoleFunc: func(ctx context.Context, userID string, role models.RoleName) error {
			assignedRole = role
			return nil
		},
	}
	svc := NewAuthService(users, nil)

	err := svc.Register(context.Background(), &RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
		Role:     "Student",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "jdoe", created.Username)
	assert.Equal(t, "s3cret", createdPassword)
	assert.Equal(t, models.RoleStudent, assignedRole)
}

func TestRegister_InvalidRoleNeverCreatesUser(t *testing.T) {
	cases := []string{"Admin", "student", "TEACHER", ""}

	for _, role := range cases {
		t.Run("role "+role, func(t *testing.T) {
			createCalled := false
			users := &mockUserRepository{
				createFunc: func(ctx context.Context, user *models.User, password string) error {
					createCalled = true
					return nil
				},
			}
			svc := NewAuthService(users, nil)

			err := svc.Register(context.Background(), &RegisterRequest{
				Username: "jdoe",
				Email:    "jdoe@example.com",
				Password: "s3cret",
				Role:     role,
			})
			assert.ErrorIs(t, err, ErrInvalidRole)
			assert.False(t, createCalled, "no user may be created for an unknown role")
		})
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	users := &mockUserRepository{
		createFunc: func(ctx context.Context, user *models.User, password string) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewAuthService(users, nil)

	err := svc.Register(context.Background(), &RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
		Role:     "Teacher",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestRegister_RoleAssignmentFailureDeletesUser(t *testing.T) {
	roleErr := errors.New("role table unavailable")
	var deleted *models.User

	users := &mockUserRepository{
		addToRoleFunc: func(ctx context.Context, userID string, role models.RoleName) error {
			return roleErr
		},
		deleteFunc: func(ctx context.Context, user *models.User) error {
			deleted = user
			return nil
		},
	}
	svc := NewAuthService(users, nil)

	err := svc.Register(context.Background(), &RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
		Role:     "Student",
	})
	assert.ErrorIs(t, err, roleErr)
	require.NotNil(t, deleted, "the half-registered user must be deleted again")
	assert.Equal(t, "jdoe", deleted.Username)
}

func TestRegister_CompensatingDeleteFailureJoinsErrors(t *testing.T) {
	roleErr := errors.New("role table unavailable")
	delErr := errors.New("delete failed too")

	users := &mockUserRepository{
		addToRoleFunc: func(ctx context.Context, userID string, role models.RoleName) error {
			return roleErr
		},
		deleteFunc: func(ctx context.Context, user *models.User) error {
			return delErr
		},
	}
	svc := NewAuthService(users, nil)

	err := svc.Register(context.Background(), &RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
		Role:     "Student",
	})
	assert.ErrorIs(t, err, roleErr)
	assert.ErrorIs(t, err, delErr)
}

// ============================================================================
// ValidateCredentials
// ============================================================================

func TestValidateCredentials_Success(t *testing.T) {
	stored := &models.User{ID: "u-1", Username: "jdoe"}
	users := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return stored, nil
		},
		verifyPasswordFunc: func(user *models.User, password string) bool {
			return password == "s3cret"
		},
	}
	svc := NewAuthService(users, nil)

	user, err := svc.ValidateCredentials(context.Background(), "jdoe", "s3cret")
	require.NoError(t, err)
	assert.Same(t, stored, user)
}

func TestValidateCredentials_UnknownUserSkipsPasswordCheck(t *testing.T) {
	verifyCalled := false
	users := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
		verifyPasswordFunc: func(user *models.User, password string) bool {
			verifyCalled = true
			return true
		},
	}
	svc := NewAuthService(users, nil)

	_, err := svc.ValidateCredentials(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, verifyCalled)
}

func TestValidateCredentials_WrongPassword(t *testing.T) {
	users := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: "u-1", Username: username}, nil
		},
		verifyPasswordFunc: func(user *models.User, password string) bool {
			return false
		},
	}
	svc := NewAuthService(users, nil)

	_, err := svc.ValidateCredentials(context.Background(), "jdoe", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
