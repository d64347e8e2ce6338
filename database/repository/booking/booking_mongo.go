package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"smartpark/config"
	"smartpark/database"
	"smartpark/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements Repository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of Repository using MongoDB.
func NewMongoBookingRepo() Repository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new booking document. The partial unique index on user_id
// over open statuses is the serialization point for the one-open-booking rule:
// concurrent creations race on the index, not on an application-level check.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrOpenBookingExists
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByBookingID retrieves a booking by its external identifier.
func (r *MongoBookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// GetByObjectID retrieves a booking by its storage primary key hex.
func (r *MongoBookingRepo) GetByObjectID(ctx context.Context, hexID string) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrNotFound
	}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking by object id %s: %w", hexID, err)
	}
	return &booking, nil
}

// FindOpenByUser returns the user's pending or active booking, if any.
func (r *MongoBookingRepo) FindOpenByUser(ctx context.Context, userID string) (*models.Booking, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": []models.BookingStatus{models.StatusPending, models.StatusActive}},
	}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch open booking for user %s: %w", userID, err)
	}
	return &booking, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// CountOpenOnFloor counts pending and active bookings against a floor.
func (r *MongoBookingRepo) CountOpenOnFloor(ctx context.Context, floorID string) (int64, error) {
	filter := bson.M{
		"floor_id": floorID,
		"status":   bson.M{"$in": []models.BookingStatus{models.StatusPending, models.StatusActive}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count open bookings on floor %s: %w", floorID, err)
	}
	return count, nil
}

// CountOpenOnFloorBySpotType counts open bookings of one spot type. Used for
// the display-only disability availability; admission never consults it.
func (r *MongoBookingRepo) CountOpenOnFloorBySpotType(ctx context.Context, floorID string, spotType models.SpotType) (int64, error) {
	filter := bson.M{
		"floor_id":  floorID,
		"spot_type": spotType,
		"status":    bson.M{"$in": []models.BookingStatus{models.StatusPending, models.StatusActive}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count open %s bookings on floor %s: %w", spotType, floorID, err)
	}
	return count, nil
}
