package models

import "time"

// Review is a tourist's one-off verdict on a completed booking. At most one
// review exists per booking; the constraint is enforced by the storage layer.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	TouristID string    `bson:"touristId" json:"touristId"`
	GuideID   string    `bson:"guideId" json:"guideId"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
