package txnRepo

import (
	"context"
	"errors"

	"smartpark/models"
)

// ErrNotFound means no transaction matched the identifier.
var ErrNotFound = errors.New("transaction not found")

// Repository defines methods for ledger entry data access. Entries are
// append-only here; the one status transition a pending entry may take
// (pending to completed or failed at exit completion) is owned by the
// settlement repository so it commits atomically with the booking close.
type Repository interface {
	// Create appends a new ledger entry.
	Create(ctx context.Context, txn *models.Transaction) error
	// GetByID retrieves a ledger entry by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// ListByUser returns a user's ledger entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error)
}
