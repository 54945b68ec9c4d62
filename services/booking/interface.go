package booking

import (
	"context"
	"time"

	bookingRepo "guidely/database/repository/booking"
	guideRepo "guidely/database/repository/guide"
	"guidely/models"
	"guidely/services/notification"
	"guidely/services/payment"
	"guidely/services/policy"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// BookingService owns the booking lifecycle. Every mutation goes through
// one of these operations; nothing else writes booking records.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.CreateBookingResponse, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	Participants(ctx context.Context, bookingID string) (*Participants, error)
	ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, paymentRef string) (*models.Booking, error)
	StartTour(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error)
	CompleteTour(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actingUserID string) (*models.CancelBookingResponse, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	GuideRepo guideRepo.GuideRepository
	Payments  payment.Gateway
	Notifier  notification.Publisher
	Cache     *redis.Client
	Logger    *zap.Logger

	// CommissionRate defaults to the platform rate when zero.
	CommissionRate float64
	Currency       string

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) rate() float64 {
	if s.CommissionRate > 0 {
		return s.CommissionRate
	}
	return policy.DefaultCommissionRate
}
