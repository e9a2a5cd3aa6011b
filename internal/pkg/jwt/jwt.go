package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token signature is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
)

// Issuer is the iss claim stamped on every token
const Issuer = "coursehub"

// Claims represents the access token claims
type Claims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the refresh token claims.
// Only the user id is carried so role and name are always re-read from the store.
type RefreshClaims struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// Config holds the signing secrets and lifetimes
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenIssuer signs and verifies HS256 access and refresh tokens
type TokenIssuer struct {
	cfg Config
	now func() time.Time
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(cfg Config) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *i
	clone.now = now
	return &clone
}

// AccessTTL returns the access token lifetime
func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.cfg.AccessTTL
}

// RefreshTTL returns the refresh token lifetime
func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.cfg.RefreshTTL
}

// IssueAccessToken generates a new access token
func (i *TokenIssuer) IssueAccessToken(userID, displayName, role string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.cfg.AccessTTL)

	claims := Claims{
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   userID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.AccessSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueRefreshToken generates a new refresh token
func (i *TokenIssuer) IssueRefreshToken(userID string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.cfg.RefreshTTL)

	claims := RefreshClaims{
		UserID:  userID,
		TokenID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyAccessToken validates an access token and returns claims
func (i *TokenIssuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := i.parse(tokenString, claims, i.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token and returns claims
func (i *TokenIssuer) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(tokenString, claims, i.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (i *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return ErrTokenMalformed
		default:
			return ErrTokenInvalid
		}
	}

	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
