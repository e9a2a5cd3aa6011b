package services

import (
	"context"
	"errors"
	"log"

	"coursehub/internal/adapters/persistence/models"
	"coursehub/internal/adapters/persistence/repositories"
	"coursehub/internal/core/domain"

	"gorm.io/gorm"
)

// PurchaseService records course purchases and manages carts
type PurchaseService struct {
	courseRepo   repositories.CourseRepository
	purchaseRepo repositories.PurchaseRepository
	cartRepo     repositories.CartRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	courseRepo repositories.CourseRepository,
	purchaseRepo repositories.PurchaseRepository,
	cartRepo repositories.CartRepository,
) *PurchaseService {
	return &PurchaseService{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		cartRepo:     cartRepo,
	}
}

// Purchase records that userID bought courseID.
// The unique index on (user, course) is the guard; the Exists lookup only
// saves a failed insert in the common case.
func (s *PurchaseService) Purchase(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	exists, err := s.purchaseRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if exists {
		return nil, domain.ErrAlreadyPurchased
	}

	purchase := &models.Purchase{UserID: userID, CourseID: courseID}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyPurchased
		}
		return nil, domain.Internal(err)
	}

	// a bought course no longer belongs in the cart
	if _, err := s.cartRepo.Delete(ctx, userID, courseID); err != nil {
		log.Printf("⚠️ Failed to remove purchased course %s from cart of %s: %v", courseID, userID, err)
	}

	log.Printf("✅ Course purchased: %s by %s", courseID, userID)
	return purchase, nil
}

// MyCourses lists the purchases of userID with their courses
func (s *PurchaseService) MyCourses(ctx context.Context, userID string) ([]*models.Purchase, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return purchases, nil
}

// AddToCart puts courseID in the cart of userID
func (s *PurchaseService) AddToCart(ctx context.Context, userID, courseID string) (*models.CartItem, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	owned, err := s.purchaseRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if owned {
		return nil, domain.ErrAlreadyPurchased
	}

	item := &models.CartItem{UserID: userID, CourseID: courseID}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyInCart
		}
		return nil, domain.Internal(err)
	}
	return item, nil
}

// RemoveFromCart takes courseID out of the cart of userID
func (s *PurchaseService) RemoveFromCart(ctx context.Context, userID, courseID string) error {
	rows, err := s.cartRepo.Delete(ctx, userID, courseID)
	if err != nil {
		return domain.Internal(err)
	}
	if rows == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

// Cart lists the cart of userID
func (s *PurchaseService) Cart(ctx context.Context, userID string) ([]*models.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return items, nil
}

func (s *PurchaseService) requireCourse(ctx context.Context, courseID string) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCourseNotFound
		}
		return domain.Internal(err)
	}
	return nil
}
