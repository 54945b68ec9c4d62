package models

import "time"

// LocationUpdate is an append-only position ping recorded by the guide
// while a tour is underway.
type LocationUpdate struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
