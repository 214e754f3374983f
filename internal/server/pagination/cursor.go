// Package pagination encodes keyset positions for newest-first listings.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cursorSeparator = "|"

// ErrInvalidCursor wraps every decoding failure.
var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor creates an opaque cursor for the row at (ts, id).
func EncodeCursor(ts time.Time, id int64) string {
	key := ts.UTC().Format(time.RFC3339Nano) + cursorSeparator + strconv.FormatInt(id, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(encoded string) (time.Time, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: bad encoding", ErrInvalidCursor)
	}

	tsPart, idPart, ok := strings.Cut(string(raw), cursorSeparator)
	if !ok {
		return time.Time{}, 0, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: timestamp: %v", ErrInvalidCursor, err)
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return time.Time{}, 0, fmt.Errorf("%w: id %q", ErrInvalidCursor, idPart)
	}

	return ts.UTC(), id, nil
}
