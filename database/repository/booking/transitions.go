// File: database/repository/booking/transitions.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"smartpark/models"

	"go.mongodb.org/mongo-driver/bson"
)

// transition applies a compare-and-swap status update: the filter pins the
// expected source status so a concurrent scan cannot double-apply a
// transition. MatchedCount == 0 means the booking moved under us.
func (r *MongoBookingRepo) transition(ctx context.Context, bookingID string, from models.BookingStatus, update bson.M) error {
	filter := bson.M{"booking_id": bookingID, "status": from}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

// MarkActive transitions pending -> active on a valid entry scan.
func (r *MongoBookingRepo) MarkActive(ctx context.Context, bookingID string, entryTime, expectedExit time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":             models.StatusActive,
		"entry_time":         entryTime,
		"expected_exit_time": expectedExit,
	}}
	return r.transition(ctx, bookingID, models.StatusPending, update)
}

// MarkExpired transitions pending -> expired once the hold window lapses.
func (r *MongoBookingRepo) MarkExpired(ctx context.Context, bookingID string) error {
	update := bson.M{"$set": bson.M{"status": models.StatusExpired}}
	return r.transition(ctx, bookingID, models.StatusPending, update)
}

// MarkCancelled transitions pending -> cancelled.
func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, bookingID string) error {
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled}}
	return r.transition(ctx, bookingID, models.StatusPending, update)
}

// SetExpectedExit pushes the expected exit time of an active booking.
func (r *MongoBookingRepo) SetExpectedExit(ctx context.Context, bookingID string, expectedExit time.Time) error {
	update := bson.M{"$set": bson.M{"expected_exit_time": expectedExit}}
	return r.transition(ctx, bookingID, models.StatusActive, update)
}
