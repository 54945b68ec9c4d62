package bookingRepo

import (
	"context"
	"errors"
	"time"

	"guidely/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking, assigning an ID if none is set.
func (r *mongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, b)
	return err
}

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByTourist fetches all bookings made by a tourist, newest first.
func (r *mongoBookingRepo) ListByTourist(ctx context.Context, touristID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"touristId": touristID})
}

// ListByGuide fetches all bookings assigned to a guide, newest first.
func (r *mongoBookingRepo) ListByGuide(ctx context.Context, guideID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"guideId": guideID})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Transition atomically moves a booking to a new status. The current
// status must be one of `from`; the check and the write happen in one
// FindOneAndUpdate so there is no read-then-write gap. Returns the
// updated booking, or ErrNotFound when no document matched.
func (r *mongoBookingRepo) Transition(ctx context.Context, id string, from []models.BookingStatus, update models.BookingUpdate) (*models.Booking, error) {
	set := bson.M{
		"status":    update.Status,
		"updatedAt": time.Now(),
	}
	if update.StartTime != nil {
		set["startTime"] = *update.StartTime
	}
	if update.EndTime != nil {
		set["endTime"] = *update.EndTime
	}
	if update.StripePaymentID != nil {
		set["stripePaymentId"] = *update.StripePaymentID
	}

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
