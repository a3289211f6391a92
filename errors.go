package cursorpager

import "errors"

var (
	// ErrInvalidRelation is returned by New when the paginated target is not
	// a queryable relation.
	ErrInvalidRelation = errors.New("relation is not queryable")

	// ErrConflictingCursors is returned by New when both an after and a
	// before cursor are supplied. Exactly one traversal anchor is allowed.
	ErrConflictingCursors = errors.New("only one of after and before can be provided")

	// ErrEmptyOrdering is returned by New when, after normalization and
	// uniquifying-key injection, no order columns remain.
	ErrEmptyOrdering = errors.New("must provide columns to order by")

	// ErrNilCursorValue is returned when a sort-key value resolves to nil or
	// is absent from a record. Such a record cannot be repositioned later.
	ErrNilCursorValue = errors.New("cursor values can not be nil")

	// ErrCursorMalformed is returned when a token is structurally corrupt
	// (bad base64 or a broken payload).
	ErrCursorMalformed = errors.New("cursor could not be decoded")

	// ErrCursorMismatch is returned when a well-formed token carries a
	// different number of values than the current ordering expects. This
	// usually means a cursor was reused across an order change.
	ErrCursorMismatch = errors.New("cursor does not match the ordering columns")
)
