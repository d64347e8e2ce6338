package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusPredicates(t *testing.T) {
	cases := []struct {
		status   BookingStatus
		terminal bool
		open     bool
	}{
		{StatusPending, false, true},
		{StatusActive, false, true},
		{StatusCompleted, true, false},
		{StatusCancelled, true, false},
		{StatusExpired, true, false},
	}
	for _, tc := range cases {
		assert.True(t, tc.status.IsValid(), "%s", tc.status)
		assert.Equal(t, tc.terminal, tc.status.IsTerminal(), "%s", tc.status)
		assert.Equal(t, tc.open, tc.status.IsOpen(), "%s", tc.status)
	}
	assert.False(t, BookingStatus("parked").IsValid())
}

func TestHoldExpired(t *testing.T) {
	now := time.Now()
	b := &Booking{Status: StatusPending, ExpiresAt: now.Add(5 * time.Minute)}
	assert.False(t, b.HoldExpired(now))

	b.ExpiresAt = now.Add(-time.Second)
	assert.True(t, b.HoldExpired(now))

	// Expiry is inclusive at the boundary.
	b.ExpiresAt = now
	assert.True(t, b.HoldExpired(now))

	// Only a pending hold can lapse.
	b.Status = StatusActive
	assert.False(t, b.HoldExpired(now))
}

func TestSpotTypeIsValid(t *testing.T) {
	assert.True(t, SpotNormal.IsValid())
	assert.True(t, SpotDisability.IsValid())
	assert.False(t, SpotType("valet").IsValid())
	assert.False(t, SpotType("").IsValid())
}
