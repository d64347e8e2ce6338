// File: database/repository/booking/sweeps.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"smartpark/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ExpireStale marks every pending booking whose hold window has passed.
// Expiry is otherwise lazy (applied at the next scan or read); this sweep
// keeps floor capacity counts from being held by abandoned reservations.
func (r *MongoBookingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":     models.StatusPending,
		"expires_at": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusExpired}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale bookings: %w", err)
	}
	return res.ModifiedCount, nil
}

// ArchiveCompletedBefore flags completed bookings that exited before cutoff.
func (r *MongoBookingRepo) ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":    models.StatusCompleted,
		"archived":  false,
		"exit_time": bson.M{"$lte": cutoff},
	}
	update := bson.M{"$set": bson.M{"archived": true}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to archive completed bookings: %w", err)
	}
	return res.ModifiedCount, nil
}

// PurgeArchivedBefore deletes archived bookings that exited before cutoff.
// This is the only code path that ever destroys a booking record.
func (r *MongoBookingRepo) PurgeArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"archived":  true,
		"exit_time": bson.M{"$lte": cutoff},
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge archived bookings: %w", err)
	}
	return res.DeletedCount, nil
}
