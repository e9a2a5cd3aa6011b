package domain

import "errors"

// Kind classifies a failure so the HTTP boundary can pick a status code
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the single failure type returned by the service layer.
// Message is safe to show to clients; Err is the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind and message,
// so a sentinel still matches after Wrap attached a cause to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewError creates an error of the given kind
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a sentinel without changing how it is classified
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// Internal hides an unexpected lower-layer error behind a generic message
func Internal(cause error) *Error {
	return Wrap(ErrInternalServer, cause)
}

// KindOf returns the kind of err; anything that is not an *Error is Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrInternalServer.Message
}

// Common domain errors
var (
	ErrInternalServer = NewError(KindInternal, "internal server error")
	ErrInvalidInput   = NewError(KindBadRequest, "invalid input")
	ErrMissingToken   = NewError(KindUnauthorized, "missing token")
	ErrInvalidToken   = NewError(KindUnauthorized, "invalid or expired token")
)

// Auth errors
var (
	ErrUserAlreadyExists    = NewError(KindConflict, "identity already exists")
	ErrInvalidCredentials   = NewError(KindUnauthorized, "invalid credentials")
	ErrUserNotFound         = NewError(KindNotFound, "user not found")
	ErrCurrentPasswordWrong = NewError(KindUnauthorized, "current password incorrect")
	ErrInvalidRole          = NewError(KindBadRequest, "role must be user or admin")
	ErrRefreshTokenMissing  = NewError(KindUnauthorized, "refresh token missing")
	ErrInvalidRefreshToken  = NewError(KindUnauthorized, "invalid or expired refresh token")
	ErrAdminsOnly           = NewError(KindForbidden, "admins only")
	ErrInsufficientRole     = NewError(KindForbidden, "insufficient role")
)

// Course errors
var (
	ErrCourseNotFound         = NewError(KindNotFound, "course not found")
	ErrNotFoundOrUnauthorized = NewError(KindNotFound, "not found or unauthorized")
	ErrImageRequired          = NewError(KindBadRequest, "image is required")
	ErrInvalidPrice           = NewError(KindBadRequest, "price must be non-negative")
	ErrUploadFailed           = NewError(KindInternal, "image upload failed")
	ErrInvalidImage           = NewError(KindBadRequest, "file must be an image")
	ErrImageTooLarge          = NewError(KindBadRequest, "image is too large")
	ErrEmptyTitle             = NewError(KindBadRequest, "title must not be empty")
	ErrTitleTooLong           = NewError(KindBadRequest, "title must not exceed 200 characters")
	ErrNothingToUpdate        = NewError(KindBadRequest, "no fields to update")
)

// Purchase and cart errors
var (
	ErrAlreadyPurchased = NewError(KindConflict, "course already purchased")
	ErrAlreadyInCart    = NewError(KindConflict, "course already in cart")
	ErrNotInCart        = NewError(KindNotFound, "course not in cart")
)
