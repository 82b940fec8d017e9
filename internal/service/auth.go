// Package service contains the authentication core: token issuance,
// refresh-token lifecycle and the registration/login facade.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers unknown username and wrong password
	// without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole rejects a registration whose role is outside the
	// closed Teacher/Student set.
	ErrInvalidRole = errors.New("invalid role")
)

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CourseID  *uint  `json:"course_id"`
	Role      string `json:"role" binding:"required"`
}

// AuthService is the single entry point the HTTP layer uses for identity
// operations.
type AuthService interface {
	// Register creates a user and assigns the requested role. When role
	// assignment fails the created user is deleted again: a user without a
	// role must never stay persisted.
	Register(ctx context.Context, req *RegisterRequest) error
	// ValidateCredentials resolves a user by name and verifies the
	// password. The resolved user is returned explicitly; it is the
	// caller's job to hand it to IssueToken.
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)
	// IssueToken produces a token pair for a user returned by a prior
	// ValidateCredentials call.
	IssueToken(ctx context.Context, user *models.User, extendExpiry bool) (*TokenPair, error)
	// RefreshToken exchanges an expired pair for a fresh one.
	RefreshToken(ctx context.Context, pair *TokenPair) (*TokenPair, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenService
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users repository.UserRepository, tokens TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) error {
	role, err := models.ParseRoleName(req.Role)
	if err != nil {
		return fmt.Errorf("%w: %q, only 'Teacher' or 'Student' roles are allowed", ErrInvalidRole, req.Role)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CourseID:  req.CourseID,
	}

	if err := s.users.Create(ctx, user, req.Password); err != nil {
		return err
	}

	if err := s.users.AddToRole(ctx, user.ID, role); err != nil {
		// Compensating delete: the role-assignment failure wins, and the
		// half-registered user must not survive it.
		if delErr := s.users.Delete(ctx, user); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}
	return nil
}

func (s *authService) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Unknown user: no password check is performed.
		return nil, ErrInvalidCredentials
	}

	if !s.users.VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, user *models.User, extendExpiry bool) (*TokenPair, error) {
	return s.tokens.CreateTokenPair(ctx, user, extendExpiry)
}

func (s *authService) RefreshToken(ctx context.Context, pair *TokenPair) (*TokenPair, error) {
	return s.tokens.Refresh(ctx, pair)
}
