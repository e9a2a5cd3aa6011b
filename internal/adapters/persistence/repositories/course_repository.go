package repositories

import (
	"context"

	"coursehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// GetByID gets a course by ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetOwned gets a course by ID only if creatorID created it
func (r *courseRepository) GetOwned(ctx context.Context, id, creatorID string) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List lists all courses with pagination, newest first
func (r *courseRepository) List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error

	return courses, total, err
}

// ListByCreator lists courses created by creatorID
func (r *courseRepository) ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Course{}).Where("creator_id = ?", creatorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error

	return courses, total, err
}

// UpdateOwned merges fields into the course matching both id and creatorID.
// Zero rows affected means the course is missing or not owned.
func (r *courseRepository) UpdateOwned(ctx context.Context, id, creatorID string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// DeleteOwned soft deletes the course matching both id and creatorID
func (r *courseRepository) DeleteOwned(ctx context.Context, id, creatorID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Delete(&models.Course{})
	return result.RowsAffected, result.Error
}
