package mongodb

import (
	"context"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParticipantRepository implements the repositories.ParticipantRepository interface
type ParticipantRepository struct {
	collection *mongo.Collection
}

var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) repositories.ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("raffle_participants"),
	}
}

// IncrementEntries upserts the wallet's per-raffle aggregate. The
// filter only matches while the increment stays within maxEntries, so
// an over-cap wallet falls through to the upsert insert and trips the
// unique (raffleId, walletAddress) index instead. A duplicate key can
// also mean two first entries raced, so one retry distinguishes the
// two cases.
func (r *ParticipantRepository) IncrementEntries(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid, maxEntries int64, now time.Time) (bool, error) {
	filter := bson.M{
		"raffleId":      raffleID,
		"walletAddress": wallet,
		"numEntries":    bson.M{"$lte": maxEntries - entries},
	}
	update := bson.M{
		"$inc": bson.M{
			"numEntries": entries,
			"totalPaid":  paid,
		},
		"$setOnInsert": bson.M{"firstEntryAt": now},
	}
	opts := options.Update().SetUpsert(true)

	for attempt := 0; attempt < 2; attempt++ {
		res, err := r.collection.UpdateOne(ctx, filter, update, opts)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return false, err
		}
		return res.UpsertedCount == 1, nil
	}
	return false, apperrors.New(apperrors.KindMaxEntriesExceeded,
		"wallet %s would exceed the entry limit of %d for this raffle", wallet, maxEntries)
}

// Reverse undoes an IncrementEntries after a failed entry sequence
func (r *ParticipantRepository) Reverse(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid int64, wasFirst bool) error {
	filter := bson.M{
		"raffleId":      raffleID,
		"walletAddress": wallet,
	}
	if wasFirst {
		_, err := r.collection.DeleteOne(ctx, filter)
		return err
	}
	update := bson.M{
		"$inc": bson.M{
			"numEntries": -entries,
			"totalPaid":  -paid,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// FindByRaffleAndWallet finds one wallet's aggregate for a raffle
func (r *ParticipantRepository) FindByRaffleAndWallet(ctx context.Context, raffleID primitive.ObjectID, wallet string) (*models.Participant, error) {
	filter := bson.M{
		"raffleId":      raffleID,
		"walletAddress": wallet,
	}
	var participant models.Participant
	err := r.collection.FindOne(ctx, filter).Decode(&participant)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &participant, nil
}

// CountByRaffleID counts distinct participants in a raffle
func (r *ParticipantRepository) CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"raffleId": raffleID})
}
