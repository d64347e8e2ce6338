package floorRepo

import (
	"context"
	"errors"

	"smartpark/models"
)

// ErrNotFound means no floor matched the identifier.
var ErrNotFound = errors.New("floor not found")

// Repository defines methods for floor data access.
type Repository interface {
	// GetByID retrieves a floor by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Floor, error)
	// GetAll retrieves all floors.
	GetAll(ctx context.Context) ([]models.Floor, error)
	// Create inserts a new floor record.
	Create(ctx context.Context, floor *models.Floor) error
	// Update modifies an existing floor record.
	Update(ctx context.Context, floor *models.Floor) error
	// SetActive toggles a floor's availability for new bookings.
	SetActive(ctx context.Context, id string, active bool) error
}
