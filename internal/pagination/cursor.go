package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// ErrInvalidCursor is returned for cursors that were not produced by EncodeCursor.
var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor returns the opaque cursor of the entity at ordinal.
func EncodeCursor(ordinal int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(ordinal)))
}

// DecodeCursor returns the ordinal held by cursor. Only cursors EncodeCursor
// could have produced are accepted: padded base64 of a canonical non-negative
// decimal, so "007" or "+7" are rejected.
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(cursor)
	if err != nil || len(raw) == 0 {
		return 0, ErrInvalidCursor
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, ErrInvalidCursor
		}
	}
	n, err := strconv.ParseUint(string(raw), 10, strconv.IntSize-2)
	if err != nil || EncodeCursor(int(n)) != cursor {
		return 0, ErrInvalidCursor
	}
	return int(n), nil
}
