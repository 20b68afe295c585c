package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the API layer can pick a status code
// without string-matching messages.
type Kind string

const (
	KindEmptyCollection         Kind = "EMPTY_COLLECTION"
	KindDuplicateEntry          Kind = "DUPLICATE_ENTRY"
	KindOutOfRange              Kind = "OUT_OF_RANGE"
	KindMissingRequiredField    Kind = "MISSING_REQUIRED_FIELD"
	KindNotFound                Kind = "NOT_FOUND"
	KindRelationNotFound        Kind = "RELATION_NOT_FOUND"
	KindAlreadyExists           Kind = "ALREADY_EXISTS"
	KindSelfReferenceNotAllowed Kind = "SELF_REFERENCE_NOT_ALLOWED"
	KindPermissionDenied        Kind = "PERMISSION_DENIED"
	KindUnauthenticated         Kind = "UNAUTHENTICATED"
)

// Error is a domain-level error carrying a machine-readable kind and a
// human-readable message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a new domain error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the kind of a domain error, or an empty kind for any other
// error value.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Common constructors. NotFound is for a missing entity; RelationNotFound is
// for a toggle relation that was never added, which callers must keep
// distinct from the entity case.
func NotFound(resource string) *Error {
	return Errorf(KindNotFound, "%s not found", resource)
}

func RelationNotFound(relation string) *Error {
	return Errorf(KindRelationNotFound, "recipe is not in %s", relation)
}

func AlreadyExists(relation string) *Error {
	return Errorf(KindAlreadyExists, "already added to %s", relation)
}

func EmptyCollection(field string) *Error {
	return Errorf(KindEmptyCollection, "%s must not be empty", field)
}

func DuplicateEntry(field string) *Error {
	return Errorf(KindDuplicateEntry, "%s contains duplicates", field)
}

func OutOfRange(field string, min, max int) *Error {
	return Errorf(KindOutOfRange, "%s must be between %d and %d", field, min, max)
}

func MissingRequiredField(field string) *Error {
	return Errorf(KindMissingRequiredField, "%s is required", field)
}

var (
	ErrSelfSubscription = NewError(KindSelfReferenceNotAllowed, "subscribing to yourself is not allowed")
	ErrPermissionDenied = NewError(KindPermissionDenied, "only the author can modify this recipe")
	ErrUnauthenticated  = NewError(KindUnauthenticated, "authentication required")
)
