package models

import "time"

// Guide is the provider side of the marketplace. Only the fields the
// booking engine reads or maintains live here; profile presentation data
// is a separate concern.
type Guide struct {
	ID            string    `bson:"id" json:"id"`
	UserID        string    `bson:"userId" json:"userId"`
	Name          string    `bson:"name" json:"name"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	AverageRating float64   `bson:"averageRating" json:"averageRating"`
	TotalReviews  int       `bson:"totalReviews" json:"totalReviews"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
