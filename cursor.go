package cursorpager

import (
	"fmt"
)

// CursorValue is a single (column, value) pair of a position in the ordering.
type CursorValue struct {
	Column string
	Value  any
}

// Cursor is an ordered list of (column, value) pairs identifying a resume
// position under a multi-column order. It exists only in memory during one
// codec round-trip; the transportable form is the token produced by
// EncodeCursor.
//
// IMPORTANT:
// A cursor MUST cover a unique combination of columns, otherwise rows can be
// skipped or repeated between pages. The Paginator guarantees this by
// appending the primary key to the ordering.
type Cursor struct {
	values []CursorValue
}

// NewCursor builds a Cursor, enforcing its invariants: at least one value and
// no nil values (a nil sort-key value cannot be encoded into a resumable
// position).
func NewCursor(values ...CursorValue) (*Cursor, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("cursor must contain at least one value")
	}

	for _, v := range values {
		if v.Value == nil {
			return nil, fmt.Errorf("%w (column '%s')", ErrNilCursorValue, v.Column)
		}
	}

	return &Cursor{values: values}, nil
}

// CursorFromRecord reads the given columns off a record and builds a Cursor.
// Any table-qualification prefix is stripped before lookup ("users.id" reads
// the "id" column). An absent or nil value is an error, not a default.
func CursorFromRecord(record Record, columns []string) (*Cursor, error) {
	values := make([]CursorValue, 0, len(columns))
	for _, column := range columns {
		v, ok := record.Column(unqualifyColumn(column))
		if !ok || v == nil {
			return nil, fmt.Errorf("%w (column '%s')", ErrNilCursorValue, column)
		}

		values = append(values, CursorValue{Column: column, Value: v})
	}

	return NewCursor(values...)
}

// Columns returns the column names in order.
func (c *Cursor) Columns() []string {
	ret := make([]string, len(c.values))
	for i, v := range c.values {
		ret[i] = v.Column
	}

	return ret
}

// Values returns the values in column order.
func (c *Cursor) Values() []any {
	ret := make([]any, len(c.values))
	for i, v := range c.values {
		ret[i] = v.Value
	}

	return ret
}

func (c *Cursor) Len() int {
	return len(c.values)
}

// String - implements fmt.Stringer. Returns the opaque token form.
func (c *Cursor) String() string {
	if c == nil || len(c.values) == 0 {
		return ""
	}

	return EncodeCursor(c)
}

var _ fmt.Stringer = (*Cursor)(nil)
