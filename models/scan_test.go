package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScanPayloadCanonical(t *testing.T) {
	p, err := ParseScanPayload([]byte(`{"type":"booking","bookingId":"SP-ABCD1234"}`))
	require.NoError(t, err)
	assert.Equal(t, ScanTypeBooking, p.Type)
	assert.Equal(t, "SP-ABCD1234", p.BookingID)

	p, err = ParseScanPayload([]byte(`{"type":"user","userId":"u1"}`))
	require.NoError(t, err)
	assert.Equal(t, ScanTypeUser, p.Type)
	assert.Equal(t, "u1", p.UserID)
}

func TestParseScanPayloadLegacyIDField(t *testing.T) {
	// Older passes carried the identifier under "id".
	p, err := ParseScanPayload([]byte(`{"type":"booking","id":"SP-ABCD1234"}`))
	require.NoError(t, err)
	assert.Equal(t, "SP-ABCD1234", p.BookingID)

	p, err = ParseScanPayload([]byte(`{"type":"user","id":"u1"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)

	// The canonical field wins when both are present.
	p, err = ParseScanPayload([]byte(`{"type":"booking","bookingId":"SP-NEW","id":"SP-OLD"}`))
	require.NoError(t, err)
	assert.Equal(t, "SP-NEW", p.BookingID)
}

func TestParseScanPayloadMissingType(t *testing.T) {
	// The oldest booking passes had no type at all.
	p, err := ParseScanPayload([]byte(`{"bookingId":"SP-ABCD1234"}`))
	require.NoError(t, err)
	assert.Equal(t, ScanTypeBooking, p.Type)
	assert.Equal(t, "SP-ABCD1234", p.BookingID)

	p, err = ParseScanPayload([]byte(`{"id":"SP-ABCD1234"}`))
	require.NoError(t, err)
	assert.Equal(t, ScanTypeBooking, p.Type)
	assert.Equal(t, "SP-ABCD1234", p.BookingID)

	p, err = ParseScanPayload([]byte(`{"userId":"u1"}`))
	require.NoError(t, err)
	assert.Equal(t, ScanTypeUser, p.Type)
	assert.Equal(t, "u1", p.UserID)
}

func TestParseScanPayloadErrors(t *testing.T) {
	cases := map[string]string{
		"malformed json":     `{"type":`,
		"unknown type":       `{"type":"vehicle","id":"x"}`,
		"no identifier":      `{}`,
		"booking without id": `{"type":"booking"}`,
		"user without id":    `{"type":"user"}`,
	}
	for name, raw := range cases {
		_, err := ParseScanPayload([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestScanPayloadEncodeRoundTrip(t *testing.T) {
	original := &ScanPayload{Type: ScanTypeBooking, BookingID: "SP-ABCD1234"}
	raw, err := original.Encode()
	require.NoError(t, err)

	parsed, err := ParseScanPayload([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
