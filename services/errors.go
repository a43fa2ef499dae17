package services

import (
	"errors"
	"fmt"
)

// Messages shown to API clients.
const (
	msgAlreadyFavorite   = "Course already in favorites"
	msgFavoriteNotFound  = "Favorite not found"
	msgAlreadyPurchased  = "Course already purchased"
	msgPurchaseRequired  = "You must purchase the course before rating it"
	msgAlreadyRated      = "You have already rated this course. Use PUT to update your rating."
	msgRatingNotFound    = "Rating not found"
	msgNoRatingForCourse = "You have not rated this course yet"
)

// Kind classifies a service failure. The HTTP layer maps each kind to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

// Error is returned by every service operation that fails for a reason the
// caller should see. Fields is only set for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service Error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func validationFailed(fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: "Validation failed!", Fields: fields}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func badRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func internal(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}
