package cursorpager

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampSentinel tags serialized timestamp values so decoding can tell
// them apart from plain strings. The prefix is reserved: it must not collide
// with legitimate string sort-key values. The tagged form carries the Unix
// epoch in microseconds, preserving sub-second ordering precision.
const timestampSentinel = "0aIX2_"

var _encoder = base64.URLEncoding

// EncodeCursor serializes a cursor into an opaque, URL-safe token.
//
// A single-column cursor serializes its lone value directly; multi-column
// cursors serialize as a JSON array in column order. Timestamps are rewritten
// to the tagged textual form before encoding.
func EncodeCursor(c *Cursor) string {
	values := make([]any, 0, c.Len())
	for _, v := range c.Values() {
		values = append(values, encodeCursorValue(v))
	}

	var payload any = values
	if len(values) == 1 {
		payload = values[0]
	}

	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	return _encoder.EncodeToString(data)
}

// DecodeCursor parses an opaque token back into a Cursor positioned under the
// given order columns.
//
// Structural corruption (bad base64, broken payload) is reported as
// ErrCursorMalformed; a well-formed token whose value count disagrees with
// the expected column count is reported as ErrCursorMismatch, so callers can
// tell garbage tokens apart from cursors reused across an order change.
func DecodeCursor(token string, columns []string) (*Cursor, error) {
	// Standard padding on encode, no padding requirement on decode.
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrCursorMalformed, token, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err = dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrCursorMalformed, token, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: '%s': trailing data after cursor payload", ErrCursorMalformed, token)
	}

	var rawValues []any
	if list, ok := payload.([]any); ok {
		if len(columns) == 1 {
			return nil, fmt.Errorf(
				"%w: expected a single value, got %v (token '%s')",
				ErrCursorMismatch, list, token,
			)
		}
		if len(list) != len(columns) {
			return nil, fmt.Errorf(
				"%w: expected %d values, got %d in %v (token '%s')",
				ErrCursorMismatch, len(columns), len(list), list, token,
			)
		}

		rawValues = list
	} else {
		if len(columns) != 1 {
			return nil, fmt.Errorf(
				"%w: expected %d values, got a single value %v (token '%s')",
				ErrCursorMismatch, len(columns), payload, token,
			)
		}

		rawValues = []any{payload}
	}

	values := make([]CursorValue, 0, len(rawValues))
	for i, raw := range rawValues {
		v, err := decodeCursorValue(raw)
		if err != nil {
			return nil, err
		}

		values = append(values, CursorValue{Column: columns[i], Value: v})
	}

	return NewCursor(values...)
}

func encodeCursorValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return timestampSentinel + strconv.FormatInt(t.UnixMicro(), 10)
	case *time.Time:
		if t == nil {
			return nil
		}
		return timestampSentinel + strconv.FormatInt(t.UnixMicro(), 10)
	default:
		return v
	}
}

func decodeCursorValue(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		// Keep integer sort keys integral instead of degrading to float64.
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i, nil
		}

		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number '%s'", ErrCursorMalformed, t)
		}
		return f, nil
	case string:
		if rest, ok := strings.CutPrefix(t, timestampSentinel); ok {
			micros, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid timestamp marker '%s'", ErrCursorMalformed, t)
			}

			return time.UnixMicro(micros).UTC(), nil
		}

		return t, nil
	default:
		return v, nil
	}
}
