package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-labs/lms-api/internal/models"
	"gorm.io/gorm"
)

// ModuleRepository provides access to course modules.
type ModuleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Module, error)
	List(ctx context.Context, params ListParams) ([]models.Module, int64, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, module *models.Module) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new ModuleRepository instance.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) FindByID(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).First(&module, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find module by id %d: %w", id, err)
	}
	return &module, nil
}

func (r *moduleRepository) List(ctx context.Context, params ListParams) ([]models.Module, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Module{})

	if params.Filter != "" {
		pattern := "%" + params.Filter + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	switch params.SortBy {
	case "name":
		query = query.Order("name")
	case "courseid":
		query = query.Order("course_id")
	default:
		query = query.Order("id")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count modules: %w", err)
	}

	var modules []models.Module
	err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&modules).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, total, nil
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

func (r *moduleRepository) Update(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Save(module).Error; err != nil {
		return fmt.Errorf("failed to update module id %d: %w", module.ID, err)
	}
	return nil
}

func (r *moduleRepository) Delete(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Delete(module).Error; err != nil {
		return fmt.Errorf("failed to delete module id %d: %w", module.ID, err)
	}
	return nil
}
