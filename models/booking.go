package models

import "time"

// BookingType distinguishes immediate bookings from future-dated ones.
type BookingType string

const (
	BookingTypeInstant   BookingType = "INSTANT"
	BookingTypeScheduled BookingType = "SCHEDULED"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusStarted   BookingStatus = "STARTED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefunded:
		return true
	}
	return false
}

// Booking is the central aggregate of the engine. Bookings are never
// hard-deleted; cancellation is a status transition.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	TouristID       string        `bson:"touristId" json:"touristId"`
	GuideID         string        `bson:"guideId" json:"guideId"`
	TourID          string        `bson:"tourId,omitempty" json:"tourId,omitempty"`
	Type            BookingType   `bson:"type" json:"type"`
	Status          BookingStatus `bson:"status" json:"status"`
	ScheduledDate   *time.Time    `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	StartTime       *time.Time    `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime         *time.Time    `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Duration        int           `bson:"duration" json:"duration"` // minutes
	MeetingPoint    string        `bson:"meetingPoint" json:"meetingPoint"`
	TotalPrice      float64       `bson:"totalPrice" json:"totalPrice"`
	Commission      float64       `bson:"commission" json:"commission"`
	GuideEarnings   float64       `bson:"guideEarnings" json:"guideEarnings"`
	StripePaymentID string        `bson:"stripePaymentId,omitempty" json:"stripePaymentId,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingInput carries the tourist-supplied fields for booking creation.
type BookingInput struct {
	TouristID     string      `json:"touristId"`
	GuideID       string      `json:"guideId"`
	TourID        string      `json:"tourId,omitempty"`
	Type          BookingType `json:"type"`
	ScheduledDate *time.Time  `json:"scheduledDate,omitempty"`
	Duration      int         `json:"duration"`
	MeetingPoint  string      `json:"meetingPoint"`
	TotalPrice    float64     `json:"totalPrice"`
}

// BookingUpdate describes the fields a state transition may set alongside
// the new status. Nil pointers are left untouched.
type BookingUpdate struct {
	Status          BookingStatus
	StartTime       *time.Time
	EndTime         *time.Time
	StripePaymentID *string
}

// CreateBookingResponse is returned from booking creation: the persisted
// booking plus the payment-intent handle the client completes payment with.
type CreateBookingResponse struct {
	Booking      *Booking `json:"booking"`
	ClientSecret string   `json:"clientSecret"`
	IntentID     string   `json:"intentId"`
}

// CancelBookingResponse reports the outcome of a cancellation, including
// the refund tier that was applied.
type CancelBookingResponse struct {
	Booking          *Booking `json:"booking"`
	RefundPercentage float64  `json:"refundPercentage"`
	RefundAmount     float64  `json:"refundAmount"`
}
