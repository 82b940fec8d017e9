package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-labs/lms-api/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository provides access to module activities.
type ActivityRepository interface {
	// FindByID loads an activity with its owning module, so callers can
	// resolve the owning course for access checks.
	FindByID(ctx context.Context, id uint) (*models.Activity, error)
	List(ctx context.Context, params ListParams) ([]models.Activity, int64, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, activity *models.Activity) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository instance.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) FindByID(ctx context.Context, id uint) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).Preload("Module").Preload("Type").First(&activity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find activity by id %d: %w", id, err)
	}
	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context, params ListParams) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if params.Filter != "" {
		pattern := "%" + params.Filter + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	switch params.SortBy {
	case "name":
		query = query.Order("name")
	case "startdate":
		query = query.Order("start_date")
	default:
		query = query.Order("id")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	var activities []models.Activity
	err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&activities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Save(activity).Error; err != nil {
		return fmt.Errorf("failed to update activity id %d: %w", activity.ID, err)
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Delete(activity).Error; err != nil {
		return fmt.Errorf("failed to delete activity id %d: %w", activity.ID, err)
	}
	return nil
}
