package userRepo

import (
	"context"
	"errors"

	"smartpark/models"
)

// ErrNotFound means no user matched the identifier.
var ErrNotFound = errors.New("user not found")

// Repository defines methods for user data access. Balance mutations that
// must pair with a ledger entry live in the settlement repository; this
// repository is read-mostly.
type Repository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
}
