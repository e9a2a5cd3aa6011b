package repositories

import (
	"context"

	"coursehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// purchaseRepository implements PurchaseRepository interface
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create records a purchase; a second purchase of the same course by the
// same user violates idx_purchases_user_course and returns gorm.ErrDuplicatedKey
func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// Exists checks if userID already bought courseID
func (r *purchaseRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser lists a user's purchases; courses deleted since are still loaded
func (r *purchaseRepository) ListByUser(ctx context.Context, userID string) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
