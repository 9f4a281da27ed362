// Package apperrors defines the error-kind taxonomy shared by every core
// component. Components return a *Error carrying a Kind; the HTTP and MCP
// edges translate Kind to a transport-specific status.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status-code translation at the edges.
// It deliberately does not distinguish types within a kind — callers
// switch on Kind, not on the wrapped Cause.
type Kind string

const (
	// KindInvalidInput covers malformed caller input: bad league
	// separator or field count, non-numeric filter year, malformed
	// paper id.
	KindInvalidInput Kind = "INVALID_INPUT"
	// KindEmptyQuery is a retriever call made with neither a dense nor
	// a sparse subquery.
	KindEmptyQuery Kind = "EMPTY_QUERY"
	// KindFieldMissing signals a required payload field absent from a
	// stored point — index corruption, not a user error.
	KindFieldMissing Kind = "FIELD_MISSING"
	// KindInvalidVectorDimension is a dense vector whose length
	// disagrees with the collection's configured dimension.
	KindInvalidVectorDimension Kind = "INVALID_VECTOR_DIMENSION"
	// KindUpstream is an embedder or vector-index I/O failure.
	KindUpstream Kind = "UPSTREAM"
	// KindInternal is everything else.
	KindInternal Kind = "INTERNAL"
)

// Error is the structured error type every core component returns.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind around a lower-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// FieldMissing builds a KindFieldMissing error naming the absent field.
func FieldMissing(field string) *Error {
	return New(KindFieldMissing, fmt.Sprintf("required field %q missing from stored payload", field))
}

// InvalidDimension builds a KindInvalidVectorDimension error.
func InvalidDimension(expected, got int) *Error {
	return New(KindInvalidVectorDimension, fmt.Sprintf("expected dense vector of length %d, got %d", expected, got))
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error, defaulting to KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
