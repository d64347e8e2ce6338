package models

import "time"

// EntryResult is returned to the kiosk after a successful entry scan.
type EntryResult struct {
	BookingID        string    `json:"bookingId"`
	Status           string    `json:"status"`
	EntryTime        time.Time `json:"entryTime"`
	ExpectedExitTime time.Time `json:"expectedExitTime"`
}

// Exit scan outcomes.
const (
	ExitOutcomeCompleted      = "completed"
	ExitOutcomePendingPayment = "pending_payment"
)

// ExitResult is returned to the kiosk after an exit scan. When the wallet
// covers the fee the booking is already completed; otherwise the kiosk shows
// the external payment channel referenced by PaymentChannelRef.
type ExitResult struct {
	BookingID         string        `json:"bookingId"`
	Status            string        `json:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus,omitempty"`
	Method            PaymentMethod `json:"method,omitempty"`
	Amount            float64       `json:"amount"`
	Shortfall         float64       `json:"shortfall,omitempty"`
	PaymentChannelRef string        `json:"paymentChannelRef,omitempty"`
}
