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

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	recorder AuthRecorder
}

// NewAuthService creates a new auth service; recorder may be nil
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	recorder AuthRecorder,
) *AuthService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	DisplayName string `json:"display_name" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email,min=3,max=100"`
	Password    string `json:"password" validate:"required,password"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordInput represents password reset input
type ResetPasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password"`
}

// LoginResult is the signed-in user and the session tokens minted for it
type LoginResult struct {
	User   *models.User
	Tokens domain.TokenPair
}

// Register creates a user. No tokens are issued; the user signs in afterwards.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.recorder.RecordAuthAttempt("register", "error")
		return nil, domain.Internal(err)
	}

	user := &models.User{
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Password:    hashedPassword,
		Role:        string(role),
	}

	// email uniqueness is enforced by the unique index, not by a lookup first
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.recorder.RecordAuthAttempt("register", "conflict")
			return nil, domain.ErrUserAlreadyExists
		}
		s.recorder.RecordAuthAttempt("register", "error")
		return nil, domain.Internal(err)
	}

	s.recorder.RecordAuthAttempt("register", "success")
	log.Printf("✅ User registered: %s (role: %s)", user.ID, user.Role)
	return user, nil
}

// Login authenticates a user and mints an access/refresh token pair.
// Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDummy(input.Password)
			s.recorder.RecordAuthAttempt("login", "invalid_credentials")
			return nil, domain.ErrInvalidCredentials
		}
		s.recorder.RecordAuthAttempt("login", "error")
		return nil, domain.Internal(err)
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		s.recorder.RecordAuthAttempt("login", "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		s.recorder.RecordAuthAttempt("login", "error")
		return nil, domain.Internal(err)
	}

	s.recorder.RecordAuthAttempt("login", "success")
	log.Printf("✅ User logged in: %s", user.ID)
	return &LoginResult{User: user, Tokens: *tokens}, nil
}

// Refresh mints a new access token from a refresh token.
// Name and role are read from the store, never from an old access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AccessGrant, error) {
	if refreshToken == "" {
		s.recorder.RecordAuthAttempt("refresh", "missing")
		return nil, domain.ErrRefreshTokenMissing
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.recorder.RecordAuthAttempt("refresh", "invalid")
		return nil, domain.Wrap(domain.ErrInvalidRefreshToken, err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.RecordAuthAttempt("refresh", "invalid")
			return nil, domain.ErrInvalidRefreshToken
		}
		s.recorder.RecordAuthAttempt("refresh", "error")
		return nil, domain.Internal(err)
	}

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user.ID, user.DisplayName, user.Role)
	if err != nil {
		s.recorder.RecordAuthAttempt("refresh", "error")
		return nil, domain.Internal(err)
	}

	s.recorder.RecordAuthAttempt("refresh", "success")
	return &domain.AccessGrant{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// ResetPassword replaces the password of userID after checking the current one.
// Tokens already issued stay valid until they expire.
func (s *AuthService) ResetPassword(ctx context.Context, userID string, input ResetPasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.RecordAuthAttempt("reset_password", "not_found")
			return domain.ErrUserNotFound
		}
		s.recorder.RecordAuthAttempt("reset_password", "error")
		return domain.Internal(err)
	}

	if !s.hasher.Verify(input.CurrentPassword, user.Password) {
		s.recorder.RecordAuthAttempt("reset_password", "invalid_credentials")
		return domain.ErrCurrentPasswordWrong
	}

	hashedPassword, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		s.recorder.RecordAuthAttempt("reset_password", "error")
		return domain.Internal(err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.RecordAuthAttempt("reset_password", "not_found")
			return domain.ErrUserNotFound
		}
		s.recorder.RecordAuthAttempt("reset_password", "error")
		return domain.Internal(err)
	}

	s.recorder.RecordAuthAttempt("reset_password", "success")
	log.Printf("✅ Password reset for user: %s", user.ID)
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err)
	}
	return user, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*domain.TokenPair, error) {
	accessToken, accessExp, err := s.tokens.IssueAccessToken(user.ID, user.DisplayName, user.Role)
	if err != nil {
		return nil, err
	}

	// refresh token carries the user id only
	refreshToken, refreshExp, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}
