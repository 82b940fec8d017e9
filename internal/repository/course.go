package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-labs/lms-api/internal/models"
	"gorm.io/gorm"
)

// CourseRepository provides access to courses and their rosters.
type CourseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, params ListParams) ([]models.Course, int64, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, course *models.Course) error
	// UsersForCourse returns every user enrolled in the course.
	UsersForCourse(ctx context.Context, id uint) ([]models.User, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository instance.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course by id %d: %w", id, err)
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, params ListParams) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

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
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []models.Course
	err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course id %d: %w", course.ID, err)
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Delete(course).Error; err != nil {
		return fmt.Errorf("failed to delete course id %d: %w", course.ID, err)
	}
	return nil
}

func (r *courseRepository) UsersForCourse(ctx context.Context, id uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("course_id = ?", id).Order("username").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for course %d: %w", id, err)
	}
	return users, nil
}
