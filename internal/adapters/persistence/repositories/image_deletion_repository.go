package repositories

import (
	"context"

	"coursehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// imageDeletionRepository implements ImageDeletionRepository interface
type imageDeletionRepository struct {
	db *gorm.DB
}

// NewImageDeletionRepository creates a new pending image deletion repository
func NewImageDeletionRepository(db *gorm.DB) ImageDeletionRepository {
	return &imageDeletionRepository{db: db}
}

// Create queues a handle for deletion
func (r *imageDeletionRepository) Create(ctx context.Context, pending *models.PendingImageDeletion) error {
	return r.db.WithContext(ctx).Create(pending).Error
}

// ListRetryable lists queued handles that have failed fewer than maxAttempts times
func (r *imageDeletionRepository) ListRetryable(ctx context.Context, maxAttempts, limit int) ([]*models.PendingImageDeletion, error) {
	var pending []*models.PendingImageDeletion
	err := r.db.WithContext(ctx).
		Where("attempts < ?", maxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&pending).Error
	return pending, err
}

// RecordFailure bumps the attempt counter
func (r *imageDeletionRepository) RecordFailure(ctx context.Context, id uint, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&models.PendingImageDeletion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}

// Delete removes a handle once the upload service confirmed the delete
func (r *imageDeletionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PendingImageDeletion{}, id).Error
}
