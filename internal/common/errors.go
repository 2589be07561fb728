package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Token errors: bad signature, unexpected algorithm, expired or malformed.
	ErrInvalidToken = errors.New("invalid token")
)

// Kind classifies an expected business failure. The transport layer maps a
// Kind to a status code; the message is shown to the caller as is.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindForbidden
	KindConflict
	KindBadRequest
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is an expected failure with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// NewError returns a kinded error carrying msg.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Messages are deliberately generic: a caller must not be able to tell an
// unknown email from a wrong password, or a forged token from a deleted account.
var (
	ErrIncorrectCredentials        = NewError(KindUnauthenticated, "Incorrect username (email) or password")
	ErrCouldNotValidateCredentials = NewError(KindUnauthenticated, "Could not validate credentials")
	ErrNotAuthenticated            = NewError(KindUnauthenticated, "Not authenticated")
	ErrIncorrectPassword           = NewError(KindForbidden, "The password is incorrect")
	ErrPasswordUnchanged           = NewError(KindBadRequest, "The password cannot match the previous one")
	ErrEmailAlreadyExists          = NewError(KindConflict, "A user with this email already exists.")
)

// KindOf reports the Kind of the first *Error in err's chain, or 0 when err
// is not an expected business failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
