package txnRepo

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

// MongoTxnRepo implements Repository using MongoDB.
type MongoTxnRepo struct {
	coll *mongo.Collection
}

// NewMongoTxnRepo creates a new instance of Repository using MongoDB.
func NewMongoTxnRepo() Repository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("transactions")
	repo := &MongoTxnRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoTxnRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create appends a new ledger entry.
func (r *MongoTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a ledger entry by its unique ID.
func (r *MongoTxnRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&txn); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", id, err)
	}
	return &txn, nil
}

// ListByUser returns a user's ledger entries, newest first.
func (r *MongoTxnRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	for cursor.Next(ctx) {
		var t models.Transaction
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}
