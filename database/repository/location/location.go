package locationRepo

import (
	"context"
	"fmt"
	"time"

	"guidely/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepository stores append-only tour position pings.
type LocationRepository interface {
	Create(ctx context.Context, loc *models.LocationUpdate) error
	History(ctx context.Context, bookingID string, limit int) ([]models.LocationUpdate, error)
}

type mongoLocationRepo struct {
	coll *mongo.Collection
}

// NewMongoLocationRepo returns a LocationRepository backed by MongoDB.
func NewMongoLocationRepo(db *mongo.Database) LocationRepository {
	repo := &mongoLocationRepo{coll: db.Collection("location_updates")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create location indexes: %v\n", err)
	}
	return repo
}

func (r *mongoLocationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoLocationRepo) Create(ctx context.Context, loc *models.LocationUpdate) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	loc.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, loc)
	return err
}

// History returns the most recent pings for a booking, newest first.
func (r *mongoLocationRepo) History(ctx context.Context, bookingID string, limit int) ([]models.LocationUpdate, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var updates []models.LocationUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
