// Package policy holds the pure pricing rules of the platform: the
// commission split applied at booking creation and the time-based refund
// tiers applied at cancellation. No I/O happens here.
package policy

import (
	"math"
	"time"
)

// DefaultCommissionRate is the platform's cut of every booking.
const DefaultCommissionRate = 0.15

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// CommissionSplit is the division of a booking's total price between the
// platform and the guide.
type CommissionSplit struct {
	Commission    float64
	GuideEarnings float64
}

// SplitCommission divides totalPrice at the given rate. The commission is
// rounded independently and the earnings are the remainder, so the two
// always sum back to totalPrice exactly.
func SplitCommission(totalPrice, rate float64) CommissionSplit {
	commission := Round2(totalPrice * rate)
	return CommissionSplit{
		Commission:    commission,
		GuideEarnings: Round2(totalPrice - commission),
	}
}

// RefundTier returns the fraction of totalPrice refunded when a booking is
// cancelled at `now`. Bookings without a scheduled date (instant tours)
// carry no policy window and refund nothing. Otherwise the tier steps down
// with the whole hours remaining until the scheduled date:
//
//	>= 24h  -> 1.0
//	>= 12h  -> 0.5
//	>=  2h  -> 0.25
//	<   2h  -> 0.0
func RefundTier(scheduledDate *time.Time, now time.Time) float64 {
	if scheduledDate == nil {
		return 0.0
	}
	hoursUntil := math.Floor(scheduledDate.Sub(now).Hours())
	switch {
	case hoursUntil >= 24:
		return 1.0
	case hoursUntil >= 12:
		return 0.5
	case hoursUntil >= 2:
		return 0.25
	default:
		return 0.0
	}
}

// RefundAmount converts a refund tier into a monetary amount.
func RefundAmount(totalPrice, refundPercentage float64) float64 {
	return Round2(totalPrice * refundPercentage)
}
