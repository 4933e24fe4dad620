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

// PayoutRepository implements the repositories.PayoutRepository interface
type PayoutRepository struct {
	collection *mongo.Collection
}

var _ repositories.PayoutRepository = (*PayoutRepository)(nil)

// NewPayoutRepository creates a new PayoutRepository
func NewPayoutRepository(db *mongo.Database) repositories.PayoutRepository {
	return &PayoutRepository{
		collection: db.Collection("payouts"),
	}
}

// CreateMany inserts the pending payouts for a completed draw
func (r *PayoutRepository) CreateMany(ctx context.Context, payouts []*models.Payout) error {
	if len(payouts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(payouts))
	now := time.Now()
	for _, payout := range payouts {
		payout.CreatedAt = now
		docs = append(docs, payout)
	}
	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	for i, id := range res.InsertedIDs {
		payouts[i].ID = id.(primitive.ObjectID)
	}
	return nil
}

// FindByID finds a payout by ID
func (r *PayoutRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	var payout models.Payout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payout)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// FindByRaffleID finds all payouts for a raffle
func (r *PayoutRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Payout, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	return r.findMany(ctx, bson.M{"raffleId": raffleID}, opts)
}

// FindByStatus finds payouts in a given status, oldest first, paginated
func (r *PayoutRepository) FindByStatus(ctx context.Context, status models.PayoutStatus, page, limit int) ([]*models.Payout, error) {
	opts := options.Find().
		SetSort(bson.M{"_id": 1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{"status": status}, opts)
}

// CountByStatus counts payouts in a given status
func (r *PayoutRepository) CountByStatus(ctx context.Context, status models.PayoutStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// FindDue finds payouts eligible for an attempt, oldest first
func (r *PayoutRepository) FindDue(ctx context.Context, maxAttempts int, limit int) ([]*models.Payout, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"status": models.PayoutStatusPending},
			{
				"status":   models.PayoutStatusFailed,
				"attempts": bson.M{"$lt": maxAttempts},
			},
		},
	}
	opts := options.Find().
		SetSort(bson.M{"_id": 1}).
		SetLimit(int64(limit))
	return r.findMany(ctx, filter, opts)
}

// BeginAttempt moves a pending or failed payout to processing and bumps
// the attempt counter. False means another worker already holds it or
// it was paid meanwhile.
func (r *PayoutRepository) BeginAttempt(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.PayoutStatus{
			models.PayoutStatusPending,
			models.PayoutStatusFailed,
		}},
	}
	update := bson.M{
		"$set": bson.M{"status": models.PayoutStatusProcessing},
		"$inc": bson.M{"attempts": 1},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkPaid finishes a processing payout with its payment reference
func (r *PayoutRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentReference string, processedAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.PayoutStatusProcessing,
	}
	update := bson.M{
		"$set": bson.M{
			"status":           models.PayoutStatusPaid,
			"paymentReference": paymentReference,
			"processedAt":      processedAt,
			"error":            "",
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkFailed records a failed attempt on a processing payout
func (r *PayoutRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, message string) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.PayoutStatusProcessing,
	}
	update := bson.M{
		"$set": bson.M{
			"status": models.PayoutStatusFailed,
			"error":  message,
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *PayoutRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Payout, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payouts []*models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, err
	}
	if payouts == nil {
		payouts = []*models.Payout{}
	}
	return payouts, nil
}
