package models

import "time"

// Message belongs to exactly one booking thread. Only the two booking
// participants may create messages.
type Message struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	SenderID  string    `bson:"senderId" json:"senderId"`
	Content   string    `bson:"content" json:"content"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
