package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.FixedZone("BRT", -3*3600))

	gotTS, gotID, err := DecodeCursor(EncodeCursor(ts, 42))
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, time.UTC, gotTS.Location())
	assert.Equal(t, int64(42), gotID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	bad := []string{
		"not base64!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("yesterday|1")),
		base64.RawURLEncoding.EncodeToString([]byte("2025-03-14T09:26:53Z|abc")),
		base64.RawURLEncoding.EncodeToString([]byte("2025-03-14T09:26:53Z|0")),
	}
	for _, c := range bad {
		_, _, err := DecodeCursor(c)
		assert.ErrorIs(t, err, ErrInvalidCursor, c)
	}
}
