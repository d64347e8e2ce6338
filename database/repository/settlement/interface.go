package settlementRepo

import (
	"context"
	"errors"
	"time"

	"smartpark/models"
)

var (
	// ErrInsufficientFunds means the guarded wallet debit matched no document:
	// the balance no longer covers the amount. At exit this routes the
	// settlement to the external payment channel, it is not a failure.
	ErrInsufficientFunds = errors.New("wallet balance below amount")
	// ErrExceedsDue means a dues clearance asked for more than is owed.
	ErrExceedsDue = errors.New("clearance exceeds outstanding dues")
	// ErrStatusConflict means the booking left the expected status before the
	// settlement committed.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

// Repository applies monetary outcomes atomically with the paired state
// changes. Every method runs as one multi-document transaction: wallet or due
// mutation, ledger entry, and booking status change land together or not at
// all.
type Repository interface {
	// SettleWallet debits the wallet by amount and completes the booking as
	// paid via wallet. Returns ErrInsufficientFunds without side effects when
	// the balance does not cover the amount.
	SettleWallet(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error)
	// SettleUPI completes the booking as paid via the external channel,
	// resolving the pending ledger entry recorded at the exit scan (identified
	// by channelRef) to completed. A missing entry is replaced by a fresh
	// completed one.
	SettleUPI(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time, channelRef string) (*models.Transaction, error)
	// SettleDue accrues amount onto the user's dues and completes the booking
	// with payment status due. Any pending channel entry for the booking is
	// marked failed. Exits are never blocked on payment.
	SettleDue(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error)
	// ClearDues reduces the user's dues by amount, recording a due_clearance
	// entry. A waived clearance is a write-off rather than a collection.
	ClearDues(ctx context.Context, userID string, amount float64, waived bool, description string) (*models.Transaction, error)
	// CreditWallet tops up the wallet, recording a deposit entry.
	CreditWallet(ctx context.Context, userID string, amount float64, description string) (*models.Transaction, error)
}
