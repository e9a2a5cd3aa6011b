package repositories

import (
	"context"

	"coursehub/internal/adapters/persistence/models"
)

// UserRepository defines the credential store
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	ExistsByRole(ctx context.Context, role string) (bool, error)
}

// CourseRepository defines course persistence.
// The *Owned methods filter on both id and creator so non-owners match nothing.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetOwned(ctx context.Context, id, creatorID string) (*models.Course, error)
	List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error)
	ListByCreator(ctx context.Context, creatorID string, offset, limit int) ([]*models.Course, int64, error)
	UpdateOwned(ctx context.Context, id, creatorID string, fields map[string]interface{}) (int64, error)
	DeleteOwned(ctx context.Context, id, creatorID string) (int64, error)
}

// PurchaseRepository defines purchase ledger persistence
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Purchase, error)
}

// CartRepository defines cart persistence
type CartRepository interface {
	Create(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, userID, courseID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error)
}

// ImageDeletionRepository tracks uploaded images whose delete must be retried
type ImageDeletionRepository interface {
	Create(ctx context.Context, pending *models.PendingImageDeletion) error
	ListRetryable(ctx context.Context, maxAttempts, limit int) ([]*models.PendingImageDeletion, error)
	RecordFailure(ctx context.Context, id uint, lastError string) error
	Delete(ctx context.Context, id uint) error
}
