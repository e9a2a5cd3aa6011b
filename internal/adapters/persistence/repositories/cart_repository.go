package repositories

import (
	"context"

	"coursehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// cartRepository implements CartRepository interface
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Create adds a course to a cart
func (r *cartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes a course from a cart
func (r *cartRepository) Delete(ctx context.Context, userID, courseID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ListByUser lists cart items with their courses; items whose course was deleted are skipped
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	var items []*models.CartItem
	err := r.db.WithContext(ctx).
		InnerJoins("Course").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC").
		Find(&items).Error
	return items, err
}
