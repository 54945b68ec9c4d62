package messageRepo

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

// MessageRepository stores per-booking message threads.
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.Message, error)
	MarkRead(ctx context.Context, bookingID, readerID string) (int64, error)
}

type mongoMessageRepo struct {
	coll *mongo.Collection
}

// NewMongoMessageRepo returns a MessageRepository backed by MongoDB.
func NewMongoMessageRepo(db *mongo.Database) MessageRepository {
	repo := &mongoMessageRepo{coll: db.Collection("messages")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create message indexes: %v\n", err)
	}
	return repo
}

func (r *mongoMessageRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoMessageRepo) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, m)
	return err
}

// ListByBooking returns the full thread in ascending creation order.
func (r *mongoMessageRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flips isRead on every message in the thread sent by the other
// party, in one bulk update. Returns the number of messages flipped.
func (r *mongoMessageRepo) MarkRead(ctx context.Context, bookingID, readerID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"bookingId": bookingID, "senderId": bson.M{"$ne": readerID}, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
