package guideRepo

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

// ErrNotFound is returned when no guide matches the query.
var ErrNotFound = errors.New("guide not found")

// GuideRepository exposes the guide fields the booking engine reads or
// maintains. Rating fields are written only through UpdateRating, as a
// side effect of review creation.
type GuideRepository interface {
	Create(ctx context.Context, g *models.Guide) error
	GetByID(ctx context.Context, id string) (*models.Guide, error)
	GetByUserID(ctx context.Context, userID string) (*models.Guide, error)
	UpdateRating(ctx context.Context, guideID string, averageRating float64, totalReviews int) error
	SetAvailability(ctx context.Context, guideID string, available bool) error
}

type mongoGuideRepo struct {
	coll *mongo.Collection
}

// NewMongoGuideRepo returns a GuideRepository backed by MongoDB.
func NewMongoGuideRepo(db *mongo.Database) GuideRepository {
	repo := &mongoGuideRepo{coll: db.Collection("guides")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create guide indexes: %v\n", err)
	}
	return repo
}

func (r *mongoGuideRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoGuideRepo) Create(ctx context.Context, g *models.Guide) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, g)
	return err
}

func (r *mongoGuideRepo) GetByID(ctx context.Context, id string) (*models.Guide, error) {
	var g models.Guide
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *mongoGuideRepo) GetByUserID(ctx context.Context, userID string) (*models.Guide, error) {
	var g models.Guide
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *mongoGuideRepo) UpdateRating(ctx context.Context, guideID string, averageRating float64, totalReviews int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": guideID}, bson.M{"$set": bson.M{
		"averageRating": averageRating,
		"totalReviews":  totalReviews,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoGuideRepo) SetAvailability(ctx context.Context, guideID string, available bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": guideID}, bson.M{"$set": bson.M{
		"isAvailable": available,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
