package models

import "time"

// PaymentIntent is the handle returned by the payment gateway when a
// charge is opened. The client completes payment with ClientSecret;
// confirmation arrives later via webhook.
type PaymentIntent struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// RefundRecord reports an executed refund.
type RefundRecord struct {
	RefundID  string    `json:"refundId"`
	IntentID  string    `json:"intentId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentEvent is a verified webhook event from the payment gateway.
type PaymentEvent struct {
	Type      string `json:"type"`
	IntentID  string `json:"intentId"`
	BookingID string `json:"bookingId"`
}
