package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsRepository implements the repositories.StatsRepository interface
type StatsRepository struct {
	collection *mongo.Collection
}

var _ repositories.StatsRepository = (*StatsRepository)(nil)

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *mongo.Database) repositories.StatsRepository {
	return &StatsRepository{
		collection: db.Collection("platform_stats"),
	}
}

// Get returns the stats document, or a zeroed one before any write
func (r *StatsRepository) Get(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	err := r.collection.FindOne(ctx, bson.M{"_id": models.PlatformStatsID}).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.PlatformStats{ID: models.PlatformStatsID}, nil
		}
		return nil, err
	}
	return &stats, nil
}

// Apply increments the stats document in one upsert, creating it on
// first use. Only non-zero fields of the delta are sent.
func (r *StatsRepository) Apply(ctx context.Context, delta models.StatsDelta) error {
	inc := bson.M{}
	if delta.TotalRaffles != 0 {
		inc["totalRaffles"] = delta.TotalRaffles
	}
	if delta.CompletedRaffles != 0 {
		inc["completedRaffles"] = delta.CompletedRaffles
	}
	if delta.CancelledRaffles != 0 {
		inc["cancelledRaffles"] = delta.CancelledRaffles
	}
	if delta.TotalEntries != 0 {
		inc["totalEntries"] = delta.TotalEntries
	}
	if delta.TotalRevenue != 0 {
		inc["totalRevenue"] = delta.TotalRevenue
	}
	if delta.TotalWinners != 0 {
		inc["totalWinners"] = delta.TotalWinners
	}
	if delta.TotalPaidOut != 0 {
		inc["totalPaidOut"] = delta.TotalPaidOut
	}
	if len(inc) == 0 {
		return nil
	}

	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": models.PlatformStatsID}, update, opts)
	return err
}
