package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no review matches the query.
	ErrNotFound = errors.New("review not found")
	// ErrDuplicate is returned when a review already exists for the
	// booking. The unique index on bookingId makes this hold under
	// concurrent submission.
	ErrDuplicate = errors.New("review already exists for booking")
)

// ReviewRepository stores reviews, at most one per booking.
type ReviewRepository interface {
	Create(ctx context.Context, rev *models.Review) error
	GetByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	ListByGuide(ctx context.Context, guideID string, page, limit int) ([]models.Review, error)
	ListAllByGuide(ctx context.Context, guideID string) ([]models.Review, error)
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo returns a ReviewRepository backed by MongoDB.
func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	repo := &mongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create review indexes: %v\n", err)
	}
	return repo
}

func (r *mongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "guideId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoReviewRepo) Create(ctx context.Context, rev *models.Review) error {
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	rev.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, rev)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoReviewRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	var rev models.Review
	err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&rev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ListByGuide returns one page of a guide's reviews, newest first.
func (r *mongoReviewRepo) ListByGuide(ctx context.Context, guideID string, page, limit int) ([]models.Review, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	return r.find(ctx, bson.M{"guideId": guideID}, opts)
}

// ListAllByGuide returns every review for the guide. Used to recompute
// the aggregate rating from scratch.
func (r *mongoReviewRepo) ListAllByGuide(ctx context.Context, guideID string) ([]models.Review, error) {
	return r.find(ctx, bson.M{"guideId": guideID}, options.Find())
}

func (r *mongoReviewRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Review, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
