package errors

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Kind classifies every failure that can leave a service.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidReference
	KindMalformedInput
	KindConflict
	KindTransientStorage
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidReference:
		return "invalid_reference"
	case KindMalformedInput:
		return "malformed_input"
	case KindConflict:
		return "conflict"
	case KindTransientStorage:
		return "transient_storage"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Status is the HTTP status code a kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidReference, KindMalformedInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTransientStorage:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is the classified error type. Only the fields relevant to Kind are set.
type Error struct {
	Kind Kind

	Entity string // NotFound
	ID     string // NotFound

	Field        string   // InvalidReference, MalformedInput
	OffendingIDs []uint64 // InvalidReference, first-occurrence order
	Reason       string   // MalformedInput, Unauthorized, optional for Conflict

	Constraint string // Conflict

	Cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message()
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Message is the caller-facing text. It never includes the cause.
func (e *Error) Message() string {
	switch e.Kind {
	case KindNotFound:
		if e.ID == "" {
			return fmt.Sprintf("%s not found", e.Entity)
		}
		return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
	case KindInvalidReference:
		if len(e.OffendingIDs) == 0 {
			return "Invalid reference: Foreign key constraint failed"
		}
		return fmt.Sprintf("Invalid %s: %s", referenceLabel(e.Field), joinIDs(e.OffendingIDs))
	case KindMalformedInput:
		if e.Field == "" {
			return e.Reason
		}
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	case KindConflict:
		if e.Reason != "" {
			return e.Reason
		}
		if e.Constraint == "" {
			return "A record with this value already exists"
		}
		return fmt.Sprintf("A record with this value already exists (%s)", e.Constraint)
	case KindTransientStorage:
		return "Storage temporarily unavailable, please retry"
	case KindUnauthorized:
		if e.Reason == "" {
			return "Authentication required"
		}
		return e.Reason
	default:
		return "Internal server error"
	}
}

// SortedOffendingIDs returns the offending IDs in ascending order.
func (e *Error) SortedOffendingIDs() []uint64 {
	ids := slices.Clone(e.OffendingIDs)
	slices.Sort(ids)
	return ids
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

func InvalidReference(field string, offendingIDs []uint64) *Error {
	return &Error{Kind: KindInvalidReference, Field: field, OffendingIDs: offendingIDs}
}

func MalformedInput(field, reason string) *Error {
	return &Error{Kind: KindMalformedInput, Field: field, Reason: reason}
}

func Conflict(constraint string, cause error) *Error {
	return &Error{Kind: KindConflict, Constraint: constraint, Cause: cause}
}

func Transient(cause error) *Error {
	return &Error{Kind: KindTransientStorage, Cause: cause}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Cause: cause}
}

func Unauthorized(reason string) *Error {
	return &Error{Kind: KindUnauthorized, Reason: reason}
}

// KindOf reports the kind of a classified error, or KindInternal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func referenceLabel(field string) string {
	switch field {
	case "assigned_to":
		return "user IDs"
	case "":
		return "references"
	default:
		return field
	}
}

func joinIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ", ")
}
