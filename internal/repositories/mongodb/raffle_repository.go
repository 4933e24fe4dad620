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

// RaffleRepository implements the repositories.RaffleRepository interface
type RaffleRepository struct {
	collection *mongo.Collection
}

var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) repositories.RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Create creates a new raffle
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = raffle.CreatedAt
	res, err := r.collection.InsertOne(ctx, raffle)
	if err != nil {
		return err
	}
	raffle.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a raffle by ID
func (r *RaffleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raffle)
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// FindAll finds raffles newest first, paginated
func (r *RaffleRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{}, opts)
}

// FindByStatus finds raffles in a given status, newest first
func (r *RaffleRepository) FindByStatus(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{"status": status}, opts)
}

// Count counts all raffles
func (r *RaffleRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// FindDueToActivate finds scheduled raffles whose start time has passed
func (r *RaffleRepository) FindDueToActivate(ctx context.Context, now time.Time) ([]*models.Raffle, error) {
	filter := bson.M{
		"status":    models.RaffleStatusScheduled,
		"startTime": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"startTime": 1})
	return r.findMany(ctx, filter, opts)
}

// FindDueToMarkEnding finds active raffles whose end time falls within
// the ending-soon window
func (r *RaffleRepository) FindDueToMarkEnding(ctx context.Context, cutoff time.Time) ([]*models.Raffle, error) {
	filter := bson.M{
		"status":  models.RaffleStatusActive,
		"endTime": bson.M{"$lte": cutoff},
	}
	opts := options.Find().SetSort(bson.M{"endTime": 1})
	return r.findMany(ctx, filter, opts)
}

// FindDueToDraw finds ending raffles whose end time has passed
func (r *RaffleRepository) FindDueToDraw(ctx context.Context, now time.Time) ([]*models.Raffle, error) {
	filter := bson.M{
		"status":  models.RaffleStatusEnding,
		"endTime": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"endTime": 1})
	return r.findMany(ctx, filter, opts)
}

// UpdateStatusIf conditionally moves a raffle to a new status
func (r *RaffleRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, to models.RaffleStatus, from ...models.RaffleStatus) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	update := bson.M{
		"$set": bson.M{
			"status":    to,
			"updatedAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// BeginDraw moves an ending raffle into drawing and records the seed
// and draw time in the same update
func (r *RaffleRepository) BeginDraw(ctx context.Context, id primitive.ObjectID, seed string, drawTime time.Time) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.RaffleStatusEnding,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.RaffleStatusDrawing,
			"randomSeed": seed,
			"drawTime":   drawTime,
			"drawError":  "",
			"updatedAt":  time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ApplyEntry adds an accepted entry to the raffle counters while the
// raffle still accepts entries
func (r *RaffleRepository) ApplyEntry(ctx context.Context, id primitive.ObjectID, entries, amount, newParticipants int64) (bool, error) {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.RaffleStatus{
			models.RaffleStatusActive,
			models.RaffleStatusEnding,
		}},
	}
	update := bson.M{
		"$inc": bson.M{
			"totalEntries":      entries,
			"prizePool":         amount,
			"totalParticipants": newParticipants,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// CompleteDraw moves a drawing raffle to completed and records the
// final pool split
func (r *RaffleRepository) CompleteDraw(ctx context.Context, id primitive.ObjectID, protocolFee, winnerPayout int64) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.RaffleStatusDrawing,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       models.RaffleStatusCompleted,
			"protocolFee":  protocolFee,
			"winnerPayout": winnerPayout,
			"updatedAt":    time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SetDrawError records a draw failure message without changing status,
// so the raffle stays visible as stuck in drawing
func (r *RaffleRepository) SetDrawError(ctx context.Context, id primitive.ObjectID, message string) error {
	update := bson.M{
		"$set": bson.M{
			"drawError": message,
			"updatedAt": time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *RaffleRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Raffle, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raffles []*models.Raffle
	if err := cursor.All(ctx, &raffles); err != nil {
		return nil, err
	}
	if raffles == nil {
		raffles = []*models.Raffle{}
	}
	return raffles, nil
}
