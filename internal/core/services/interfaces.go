package services

import (
	"context"
	"time"

	"coursehub/internal/core/domain"
	"coursehub/internal/pkg/jwt"
)

// Note: implementations live in internal/pkg/password, internal/pkg/jwt,
// internal/adapters/storage and internal/pkg/metrics

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyDummy(password string)
}

// TokenIssuer mints and verifies session tokens
type TokenIssuer interface {
	IssueAccessToken(userID, displayName, role string) (string, time.Time, error)
	IssueRefreshToken(userID string) (string, time.Time, error)
	VerifyRefreshToken(tokenString string) (*jwt.RefreshClaims, error)
}

// ImageStore is the upload service holding course images
type ImageStore interface {
	Upload(ctx context.Context, file domain.ImageFile) (*domain.ImageRef, error)
	Delete(ctx context.Context, handle string) error
}

// AuthRecorder records auth outcomes
type AuthRecorder interface {
	RecordAuthAttempt(operation, outcome string)
}

// CleanupRecorder records image cleanup outcomes
type CleanupRecorder interface {
	RecordImageCleanup(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthAttempt(string, string) {}
func (nopRecorder) RecordImageCleanup(string) {}
