// Package repository provides data access layer for the LMS API.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-labs/lms-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation (username or
	// email already taken).
	ErrDuplicate = errors.New("already exists")

	// ErrTokenConflict indicates a conditional refresh-token update matched
	// no row: the stored token was rotated by a concurrent request.
	ErrTokenConflict = errors.New("refresh token conflict")
)

// UserRepository is the credential store: user records, password
// verification and role memberships.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Create persists a new user. The store owns hashing; the caller never
	// handles anything but the plaintext it received on the wire.
	Create(ctx context.Context, user *models.User, password string) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
	VerifyPassword(user *models.User, password string) bool

	GetRoles(ctx context.Context, userID string) ([]models.RoleName, error)
	AddToRole(ctx context.Context, userID string, role models.RoleName) error
	// EnsureRoles creates the closed role set if absent. Idempotent; run
	// once at bootstrap.
	EnsureRoles(ctx context.Context) error

	// UpdateRefreshToken unconditionally stores a rotated token. A nil
	// expireTime leaves the stored deadline untouched.
	UpdateRefreshToken(ctx context.Context, userID string, token string, expireTime *time.Time) error
	// RotateRefreshToken replaces the stored token only while it still
	// equals previous. Returns ErrTokenConflict when no row matched, so a
	// second racer against the same stale value loses.
	RotateRefreshToken(ctx context.Context, userID, previous, next string, expireTime time.Time) error

	List(ctx context.Context, params ListParams) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: username or email taken", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user id %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("failed to delete user id %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (r *userRepository) GetRoles(ctx context.Context, userID string) ([]models.RoleName, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user %s: %w", userID, err)
	}

	names := make([]models.RoleName, 0, len(roles))
	for _, role := range roles {
		names = append(names, models.RoleName(role.Name))
	}
	return names, nil
}

func (r *userRepository) AddToRole(ctx context.Context, userID string, role models.RoleName) error {
	var dbRole models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", string(role)).First(&dbRole).Error; err != nil {
		return fmt.Errorf("failed to find role %s: %w", role, err)
	}

	err := r.db.WithContext(ctx).Exec(
		"INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", userID, dbRole.ID).Error
	if err != nil {
		return fmt.Errorf("failed to assign role %s to user %s: %w", role, userID, err)
	}
	return nil
}

func (r *userRepository) EnsureRoles(ctx context.Context) error {
	for _, name := range models.AllRoles {
		err := r.db.WithContext(ctx).
			Where(models.Role{Name: string(name)}).
			FirstOrCreate(&models.Role{}).Error
		if err != nil {
			return fmt.Errorf("failed to ensure role %s: %w", name, err)
		}
	}
	return nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID string, token string, expireTime *time.Time) error {
	cols := map[string]any{"refresh_token": token}
	if expireTime != nil {
		cols["refresh_token_expire_time"] = *expireTime
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) RotateRefreshToken(ctx context.Context, userID, previous, next string, expireTime time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, previous).
		Updates(map[string]any{
			"refresh_token":             next,
			"refresh_token_expire_time": expireTime,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to rotate refresh token for user %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTokenConflict
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, params ListParams) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if params.Filter != "" {
		pattern := "%" + params.Filter + "%"
		query = query.Where("(first_name || ' ' || last_name) LIKE ? OR email LIKE ?", pattern, pattern)
	}

	switch params.SortBy {
	case "name":
		query = query.Order("first_name")
	case "email":
		query = query.Order("email")
	default:
		query = query.Order("id")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
