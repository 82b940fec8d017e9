// Package policy decides what a caller may see or do with course-scoped
// resources. Every course-scoped handler consults the same evaluator
// instead of re-implementing role and enrollment branching.
package policy

import (
	"context"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/campus-labs/lms-api/internal/service"
)

// Verdict is the outcome of a policy evaluation.
type Verdict int

const (
	// Allow grants the request unchanged.
	Allow Verdict = iota
	// AllowFiltered grants the request but requires the caller's own
	// record to be excluded from the result.
	AllowFiltered
	// DenyForbidden rejects a known caller without hiding that the
	// resource exists.
	DenyForbidden
	// DenyNotFound rejects because the resource does not exist.
	DenyNotFound
)

// Action classifies what the caller wants to do with the target.
type Action int

const (
	// ActionRead is a read of a single course-scoped resource.
	ActionRead Action = iota
	// ActionMutate is a create, update or delete.
	ActionMutate
	// ActionListRoster is a listing of the users enrolled in a course.
	ActionListRoster
)

// Caller describes the requesting identity. Enrollment is looked up fresh
// from the store, never trusted from the token.
type Caller struct {
	UserID   string
	Roles    []models.RoleName
	CourseID *uint
}

// HasRole reports whether the caller holds the given role.
func (c Caller) HasRole(role models.RoleName) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Target describes the resource under evaluation in terms of the course
// that owns it.
type Target struct {
	Exists   bool
	CourseID uint
}

// Evaluate is a pure decision function of (role, identity, enrollment,
// target). Existence is checked before enrollment, uniformly across all
// endpoints.
func Evaluate(caller Caller, action Action, target Target) Verdict {
	if !target.Exists {
		return DenyNotFound
	}

	if caller.HasRole(models.RoleTeacher) {
		return Allow
	}

	if action == ActionMutate {
		// Mutation requires the Teacher role unconditionally; enrollment
		// does not matter.
		return DenyForbidden
	}

	if !caller.HasRole(models.RoleStudent) {
		return DenyForbidden
	}

	if caller.CourseID == nil || *caller.CourseID != target.CourseID {
		return DenyForbidden
	}

	if action == ActionListRoster {
		// A student never sees themselves in a roster they fetch.
		return AllowFiltered
	}
	return Allow
}

// Service resolves a Caller from token claims, fetching a student's
// enrollment from the credential store.
type Service struct {
	users repository.UserRepository
}

// NewService creates a new policy Service instance.
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// CallerFromClaims builds the policy input for a request. Role strings
// outside the closed set are dropped.
func (s *Service) CallerFromClaims(ctx context.Context, claims *service.AccessClaims) (Caller, error) {
	caller := Caller{UserID: claims.Subject}
	for _, role := range claims.Roles {
		if name, err := models.ParseRoleName(role); err == nil {
			caller.Roles = append(caller.Roles, name)
		}
	}

	if caller.HasRole(models.RoleStudent) {
		user, err := s.users.FindByID(ctx, claims.Subject)
		if err != nil {
			return Caller{}, err
		}
		caller.CourseID = user.CourseID
	}
	return caller, nil
}
