package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"coursehub/internal/adapters/persistence/models"
	"coursehub/internal/adapters/persistence/repositories"
	"coursehub/internal/core/domain"

	"gorm.io/gorm"
)

// maxTitleLength matches the width of the courses.title column
const maxTitleLength = 200

// Reasons recorded on a PendingImageDeletion
const (
	ReasonCreateRollback = "create_rollback"
	ReasonUpdateRollback = "update_rollback"
	ReasonReplaced       = "replaced"
)

// CourseService handles course business logic.
// Update and delete are scoped to the course creator; a course that exists
// but belongs to someone else is reported exactly like a missing one.
type CourseService struct {
	courseRepo    repositories.CourseRepository
	deletionRepo  repositories.ImageDeletionRepository
	images        ImageStore
	maxImageBytes int64
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repositories.CourseRepository,
	deletionRepo repositories.ImageDeletionRepository,
	images ImageStore,
	maxImageBytes int64,
) *CourseService {
	return &CourseService{
		courseRepo:    courseRepo,
		deletionRepo:  deletionRepo,
		images:        images,
		maxImageBytes: maxImageBytes,
	}
}

// CreateCourseInput represents course creation input
type CreateCourseInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// UpdateCourseInput represents a partial course update; nil fields are left untouched
type UpdateCourseInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// Create uploads the image and persists a course owned by creatorID.
// If persisting fails the uploaded image is deleted again.
func (s *CourseService) Create(ctx context.Context, creatorID string, input CreateCourseInput, image *domain.ImageFile) (*models.Course, error) {
	if image == nil {
		return nil, domain.ErrImageRequired
	}
	if input.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}

	ref, err := s.images.Upload(ctx, *image)
	if err != nil {
		return nil, domain.Wrap(domain.ErrUploadFailed, err)
	}

	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    ref.URL,
		ImageHandle: ref.Handle,
		CreatorID:   creatorID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		s.discardImage(ctx, ref.Handle, ReasonCreateRollback)
		return nil, domain.Internal(err)
	}

	log.Printf("✅ Course created: %s by %s", course.ID, creatorID)
	return course, nil
}

// ListAll lists every course
func (s *CourseService) ListAll(ctx context.Context, offset, limit int) ([]*models.Course, int64, error) {
	courses, total, err := s.courseRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal(err)
	}
	return courses, total, nil
}

// ListForCreator lists the courses created by creatorID
func (s *CourseService) ListForCreator(ctx context.Context, creatorID string, offset, limit int) ([]*models.Course, int64, error) {
	courses, total, err := s.courseRepo.ListByCreator(ctx, creatorID, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal(err)
	}
	return courses, total, nil
}

// GetByID returns the course, or nil without error when it does not exist
func (s *CourseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.Internal(err)
	}
	return course, nil
}

// GetOwned returns the course only if requesterID created it
func (s *CourseService) GetOwned(ctx context.Context, id, requesterID string) (*models.Course, error) {
	course, err := s.courseRepo.GetOwned(ctx, id, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFoundOrUnauthorized
		}
		return nil, domain.Internal(err)
	}
	return course, nil
}

// Update merges the present fields into a course owned by requesterID.
// A new image is uploaded first; the old one is deleted once the update is stored.
func (s *CourseService) Update(ctx context.Context, id, requesterID string, input UpdateCourseInput, image *domain.ImageFile) (*models.Course, error) {
	existing, err := s.GetOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.ErrEmptyTitle
		}
		if utf8.RuneCountInString(*input.Title) > maxTitleLength {
			return nil, domain.ErrTitleTooLong
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		fields["price"] = *input.Price
	}
	if image == nil && len(fields) == 0 {
		return nil, domain.ErrNothingToUpdate
	}

	var uploaded *domain.ImageRef
	if image != nil {
		if err := s.checkImage(image); err != nil {
			return nil, err
		}
		uploaded, err = s.images.Upload(ctx, *image)
		if err != nil {
			return nil, domain.Wrap(domain.ErrUploadFailed, err)
		}
		fields["image_url"] = uploaded.URL
		fields["image_handle"] = uploaded.Handle
	}

	rows, err := s.courseRepo.UpdateOwned(ctx, id, requesterID, fields)
	if err != nil || rows == 0 {
		if uploaded != nil {
			s.discardImage(ctx, uploaded.Handle, ReasonUpdateRollback)
		}
		if err != nil {
			return nil, domain.Internal(err)
		}
		// deleted between the ownership check and the update
		return nil, domain.ErrNotFoundOrUnauthorized
	}

	if uploaded != nil {
		s.discardImage(ctx, existing.ImageHandle, ReasonReplaced)
	}

	updated, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}

	log.Printf("✅ Course updated: %s", id)
	return updated, nil
}

// Delete removes a course owned by requesterID.
// Purchases keep pointing at it, so its image is left in place.
func (s *CourseService) Delete(ctx context.Context, id, requesterID string) error {
	rows, err := s.courseRepo.DeleteOwned(ctx, id, requesterID)
	if err != nil {
		return domain.Internal(err)
	}
	if rows == 0 {
		return domain.ErrNotFoundOrUnauthorized
	}

	log.Printf("✅ Course deleted: %s", id)
	return nil
}

func (s *CourseService) checkImage(image *domain.ImageFile) error {
	if !strings.HasPrefix(image.ContentType, "image/") {
		return domain.ErrInvalidImage
	}
	if s.maxImageBytes > 0 && image.Size > s.maxImageBytes {
		return domain.ErrImageTooLarge
	}
	return nil
}

// discardImage deletes an uploaded image on a best-effort basis.
// Failures are queued for the cleanup job and never returned.
func (s *CourseService) discardImage(ctx context.Context, handle, reason string) {
	if handle == "" {
		return
	}

	// the request may already be cancelled; the cleanup must still run
	ctx = context.WithoutCancel(ctx)

	err := s.images.Delete(ctx, handle)
	if err == nil {
		return
	}
	log.Printf("⚠️ Failed to delete image %s (%s): %v", handle, reason, err)

	pending := &models.PendingImageDeletion{
		Handle:    handle,
		Reason:    reason,
		LastError: err.Error(),
	}
	if err := s.deletionRepo.Create(ctx, pending); err != nil {
		log.Printf("❌ Failed to queue image %s for deletion: %v", handle, err)
	}
}
