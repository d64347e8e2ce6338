package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a parking session.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// IsOpen returns true if the booking still counts against floor capacity
// and the one-open-booking-per-user rule.
func (s BookingStatus) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

// PaymentStatus of a booking's settlement.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentDue     PaymentStatus = "due"
)

// PaymentMethod used to settle a booking.
type PaymentMethod string

const (
	MethodWallet PaymentMethod = "wallet"
	MethodUPI    PaymentMethod = "upi"
	MethodFree   PaymentMethod = "free"
	MethodNone   PaymentMethod = "none"
)

// SpotType of the requested parking spot.
type SpotType string

const (
	SpotNormal     SpotType = "normal"
	SpotDisability SpotType = "disability"
)

func (t SpotType) IsValid() bool {
	return t == SpotNormal || t == SpotDisability
}

// DefaultSpotLabel is used for all bookings; specific-spot allocation is not
// implemented, drivers take any free spot on the floor.
const DefaultSpotLabel = "Any Available Spot"

// Booking represents one parking session from reservation to terminal state.
// BookingID is the externally visible identifier embedded in QR payloads and
// is distinct from the storage primary key.
type Booking struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BookingID        string             `bson:"booking_id" json:"bookingId"`
	UserID           string             `bson:"user_id" json:"userId"`
	FloorID          string             `bson:"floor_id" json:"floorId"`
	SpotType         SpotType           `bson:"spot_type" json:"spotType"`
	SpotLabel        string             `bson:"spot_label" json:"spotLabel"`
	Status           BookingStatus      `bson:"status" json:"status"`
	EntryTime        *time.Time         `bson:"entry_time,omitempty" json:"entryTime,omitempty"`
	ExitTime         *time.Time         `bson:"exit_time,omitempty" json:"exitTime,omitempty"`
	ExpectedExitTime *time.Time         `bson:"expected_exit_time,omitempty" json:"expectedExitTime,omitempty"`
	ActualAmount     float64            `bson:"actual_amount" json:"actualAmount"`
	PaymentStatus    PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	PaymentMethod    PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt        time.Time          `bson:"expires_at" json:"expiresAt"`
	Archived         bool               `bson:"archived" json:"archived"`
}

// HoldExpired reports whether a pending reservation's hold window has lapsed.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == StatusPending && !now.Before(b.ExpiresAt)
}
