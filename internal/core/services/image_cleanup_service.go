package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"coursehub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// cleanupBatchSize bounds how many pending deletes one run retries
const cleanupBatchSize = 50

// ImageCleanupService retries image deletes that failed during course updates
type ImageCleanupService struct {
	deletionRepo repositories.ImageDeletionRepository
	images       ImageStore
	recorder     CleanupRecorder
	maxAttempts  int
	cron         *cron.Cron
}

// NewImageCleanupService creates a new cleanup service; recorder may be nil
func NewImageCleanupService(
	deletionRepo repositories.ImageDeletionRepository,
	images ImageStore,
	recorder CleanupRecorder,
	maxAttempts int,
) *ImageCleanupService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ImageCleanupService{
		deletionRepo: deletionRepo,
		images:       images,
		recorder:     recorder,
		maxAttempts:  maxAttempts,
		cron:         cron.New(),
	}
}

// Start schedules the cleanup job, e.g. "@every 10m" or "0 3 * * *"
func (s *ImageCleanupService) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	log.Printf("🚀 ImageCleanupService started [%s]", schedule)
	return nil
}

// Stop stops scheduling and waits for a running job to finish
func (s *ImageCleanupService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 ImageCleanupService stopped")
}

// RunOnce retries every pending delete that has not used up its attempts.
// It returns how many images were deleted.
func (s *ImageCleanupService) RunOnce(ctx context.Context) int {
	pending, err := s.deletionRepo.ListRetryable(ctx, s.maxAttempts, cleanupBatchSize)
	if err != nil {
		log.Printf("❌ Image cleanup query error: %v", err)
		return 0
	}

	deleted := 0
	for _, p := range pending {
		if err := s.images.Delete(ctx, p.Handle); err != nil {
			s.recorder.RecordImageCleanup("failed")
			if err := s.deletionRepo.RecordFailure(ctx, p.ID, err.Error()); err != nil {
				log.Printf("❌ Image cleanup bookkeeping error for %s: %v", p.Handle, err)
			}
			if p.Attempts+1 >= s.maxAttempts {
				log.Printf("⚠️ Giving up on image %s after %d attempts", p.Handle, p.Attempts+1)
			}
			continue
		}

		if err := s.deletionRepo.Delete(ctx, p.ID); err != nil {
			log.Printf("❌ Image cleanup bookkeeping error for %s: %v", p.Handle, err)
		}
		s.recorder.RecordImageCleanup("deleted")
		deleted++
	}

	if deleted > 0 {
		log.Printf("🗑️ Deleted %d orphaned images", deleted)
	}
	return deleted
}
