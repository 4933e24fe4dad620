package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the write paths rely on. The entry
// ledger and the payout tracker both lean on unique indexes for their
// idempotency guarantees, so this must run before the server accepts
// traffic.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"raffles": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endTime", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "startTime", Value: 1}}},
		},
		"entries": {
			{
				Keys:    bson.D{{Key: "paymentReference", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "raffleId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "walletAddress", Value: 1}}},
		},
		"raffle_participants": {
			{
				Keys:    bson.D{{Key: "raffleId", Value: 1}, {Key: "walletAddress", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"winners": {
			{Keys: bson.D{{Key: "raffleId", Value: 1}}},
			{Keys: bson.D{{Key: "walletAddress", Value: 1}}},
		},
		"payouts": {
			{
				Keys:    bson.D{{Key: "winnerId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "attempts", Value: 1}}},
			{Keys: bson.D{{Key: "raffleId", Value: 1}}},
		},
		"admin_users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}
