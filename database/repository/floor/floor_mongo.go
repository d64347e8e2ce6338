package floorRepo

import (
	"context"
	"fmt"
	"time"

	"smartpark/config"
	"smartpark/database"
	"smartpark/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFloorRepo implements Repository using MongoDB.
type MongoFloorRepo struct {
	coll *mongo.Collection
}

// NewMongoFloorRepo creates a new instance of Repository using MongoDB.
func NewMongoFloorRepo() Repository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("floors")
	repo := &MongoFloorRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoFloorRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a floor by its unique ID.
func (r *MongoFloorRepo) GetByID(ctx context.Context, id string) (*models.Floor, error) {
	var floor models.Floor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&floor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch floor with id %s: %w", id, err)
	}
	return &floor, nil
}

// GetAll retrieves all floors.
func (r *MongoFloorRepo) GetAll(ctx context.Context) ([]models.Floor, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve floors: %w", err)
	}
	defer cursor.Close(ctx)

	var floors []models.Floor
	for cursor.Next(ctx) {
		var f models.Floor
		if err := cursor.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode floor: %w", err)
		}
		floors = append(floors, f)
	}
	return floors, nil
}

// Create inserts a new floor document.
func (r *MongoFloorRepo) Create(ctx context.Context, floor *models.Floor) error {
	now := time.Now()
	floor.CreatedAt = now
	floor.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, floor); err != nil {
		return fmt.Errorf("failed to create floor: %w", err)
	}
	return nil
}

// Update modifies an existing floor document.
func (r *MongoFloorRepo) Update(ctx context.Context, floor *models.Floor) error {
	floor.UpdatedAt = time.Now()
	filter := bson.M{"id": floor.ID}
	update := bson.M{"$set": floor}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update floor with id %s: %w", floor.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles a floor's availability for new bookings.
func (r *MongoFloorRepo) SetActive(ctx context.Context, id string, active bool) error {
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update active flag for floor %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
