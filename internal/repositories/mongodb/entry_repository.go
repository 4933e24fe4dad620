package mongodb

import (
	"context"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

var _ repositories.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("entries"),
	}
}

// Create inserts a new entry. The unique index on paymentReference
// turns a replayed payment into a duplicate key error.
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an entry by ID
func (r *EntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByPaymentReference finds an entry by its payment reference
func (r *EntryRepository) FindByPaymentReference(ctx context.Context, reference string) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"paymentReference": reference}).Decode(&entry)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &entry, nil
}

// FindByRaffleID finds entries for a raffle, newest first, paginated
func (r *EntryRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, page, limit int) ([]*models.Entry, error) {
	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{"raffleId": raffleID}, opts)
}

// FindByWallet finds entries for a wallet across raffles, newest first
func (r *EntryRepository) FindByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Entry, error) {
	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{"walletAddress": wallet}, opts)
}

// FindConfirmedByRaffleID returns all confirmed entries for a raffle in
// insertion order. ObjectIDs are monotonic for a single collection, so
// sorting by _id reproduces the order tickets were issued in.
func (r *EntryRepository) FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error) {
	filter := bson.M{
		"raffleId": raffleID,
		"status":   models.EntryStatusConfirmed,
	}
	opts := options.Find().SetSort(bson.M{"_id": 1})
	return r.findMany(ctx, filter, opts)
}

// MarkRefundedByRaffleID flips every confirmed entry of a raffle to
// refunded and returns how many were flipped
func (r *EntryRepository) MarkRefundedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"raffleId": raffleID,
		"status":   models.EntryStatusConfirmed,
	}
	update := bson.M{
		"$set": bson.M{"status": models.EntryStatusRefunded},
	}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes an entry by ID
func (r *EntryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *EntryRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Entry, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return entries, nil
}
