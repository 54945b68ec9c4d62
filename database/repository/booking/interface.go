package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no booking matches the query. For
// Transition this also covers the case where the booking exists but its
// current status is not in the allowed set.
var ErrNotFound = errors.New("booking not found")

// BookingRepository is the durable store for bookings. Transition is the
// only mutation path after creation: it checks the current status and
// writes the new one in a single conditional update, so concurrent
// transitions on the same booking cannot both succeed.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByTourist(ctx context.Context, touristID string) ([]models.Booking, error)
	ListByGuide(ctx context.Context, guideID string) ([]models.Booking, error)
	Transition(ctx context.Context, id string, from []models.BookingStatus, update models.BookingUpdate) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by MongoDB.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &mongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func (r *mongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "touristId", Value: 1}}},
		{Keys: bson.D{{Key: "guideId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
