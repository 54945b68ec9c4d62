package booking

import (
	"context"
	"encoding/json"
	"errors"

	bookingRepo "guidely/database/repository/booking"
	guideRepo "guidely/database/repository/guide"
	"guidely/models"
	"guidely/services/policy"
	"guidely/utils"

	"go.uber.org/zap"
)

// nonTerminal is the set of states a cancellation may leave from.
var nonTerminal = []models.BookingStatus{
	models.BookingStatusPending,
	models.BookingStatusConfirmed,
	models.BookingStatusStarted,
}

// CreateBooking validates the request, computes the commission split,
// persists the booking as PENDING and opens a payment intent. The intent
// handle is returned to the caller; confirmation arrives later via the
// payment webhook.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input models.BookingInput) (*models.CreateBookingResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	guide, err := s.GuideRepo.GetByID(ctx, input.GuideID)
	if err != nil {
		if errors.Is(err, guideRepo.ErrNotFound) {
			return nil, utils.NewNotFound("guide %s not found", input.GuideID)
		}
		return nil, err
	}
	if input.Type == models.BookingTypeInstant && !guide.IsAvailable {
		return nil, utils.NewServiceError(utils.CodeGuideUnavailable,
			"guide %s is not available for instant bookings", input.GuideID)
	}

	split := policy.SplitCommission(input.TotalPrice, s.rate())
	b := &models.Booking{
		TouristID:     input.TouristID,
		GuideID:       input.GuideID,
		TourID:        input.TourID,
		Type:          input.Type,
		Status:        models.BookingStatusPending,
		ScheduledDate: input.ScheduledDate,
		Duration:      input.Duration,
		MeetingPoint:  input.MeetingPoint,
		TotalPrice:    input.TotalPrice,
		Commission:    split.Commission,
		GuideEarnings: split.GuideEarnings,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, err
	}

	payload := map[string]any{"bookingId": b.ID, "status": b.Status}
	s.Notifier.Publish(b.TouristID, models.EventTypeBooking, payload)
	s.Notifier.Publish(guide.UserID, models.EventTypeBooking, payload)

	intent, err := s.createIntent(ctx, b)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("guideId", b.GuideID),
		zap.Float64("totalPrice", b.TotalPrice))

	return &models.CreateBookingResponse{
		Booking:      b,
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.IntentID,
	}, nil
}

// createIntent opens a payment intent, reusing a cached one when the same
// booking already has an open intent (caller-side retries).
func (s *DefaultBookingService) createIntent(ctx context.Context, b *models.Booking) (*models.PaymentIntent, error) {
	key := utils.IdempotencyPrefix + b.ID
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var cached models.PaymentIntent
			if json.Unmarshal([]byte(data), &cached) == nil {
				return &cached, nil
			}
		}
	}

	intent, err := s.Payments.CreateIntent(ctx, b.ID, b.TotalPrice, s.Currency)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(intent); err == nil {
			if err := s.Cache.Set(ctx, key, data, utils.IdempotencyTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache payment intent", zap.Error(err))
			}
		}
	}
	return intent, nil
}

// ConfirmPayment transitions PENDING to CONFIRMED and stores the payment
// reference. Called from the payment webhook after signature verification.
// Idempotent: confirming an already-confirmed booking is a no-op, with no
// second notification.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID, paymentRef string) (*models.Booking, error) {
	update := models.BookingUpdate{
		Status:          models.BookingStatusConfirmed,
		StripePaymentID: &paymentRef,
	}
	b, err := s.Repo.Transition(ctx, bookingID, []models.BookingStatus{models.BookingStatusPending}, update)
	if err != nil {
		if !errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, err
		}
		// Either the booking is unknown or it is no longer PENDING.
		current, getErr := s.Repo.GetByID(ctx, bookingID)
		if getErr != nil {
			if errors.Is(getErr, bookingRepo.ErrNotFound) {
				return nil, utils.NewNotFound("booking %s not found", bookingID)
			}
			return nil, getErr
		}
		if current.Status == models.BookingStatusConfirmed {
			// Webhook redelivery; nothing to do.
			return current, nil
		}
		return nil, utils.NewInvalidTransition(
			"cannot confirm payment for booking in status %s", current.Status)
	}

	guide, err := s.GuideRepo.GetByID(ctx, b.GuideID)
	if err != nil {
		s.Logger.Warn("confirmed booking references unknown guide",
			zap.String("bookingId", b.ID), zap.Error(err))
	}

	payload := map[string]any{"bookingId": b.ID, "status": b.Status}
	s.Notifier.Publish(b.TouristID, models.EventTypeBooking, payload)
	if guide != nil {
		s.Notifier.Publish(guide.UserID, models.EventTypeBooking, payload)
	}

	s.Logger.Info("payment confirmed", zap.String("bookingId", b.ID))
	return b, nil
}

// StartTour moves a CONFIRMED booking to STARTED. Only the assigned guide
// may start the tour.
func (s *DefaultBookingService) StartTour(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	b, guide, err := s.loadWithGuide(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if guide.UserID != actingUserID {
		return nil, utils.NewForbidden("only the assigned guide may start this tour")
	}

	now := s.now()
	updated, err := s.Repo.Transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusConfirmed},
		models.BookingUpdate{Status: models.BookingStatusStarted, StartTime: &now})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NewInvalidTransition("cannot start tour from status %s", b.Status)
		}
		return nil, err
	}

	s.Notifier.Publish(updated.TouristID, models.EventTypeBooking,
		map[string]any{"bookingId": updated.ID, "status": updated.Status})

	s.Logger.Info("tour started", zap.String("bookingId", updated.ID))
	return updated, nil
}

// CompleteTour moves a STARTED booking to COMPLETED. Only the assigned
// guide may complete the tour.
func (s *DefaultBookingService) CompleteTour(ctx context.Context, bookingID, actingUserID string) (*models.Booking, error) {
	b, guide, err := s.loadWithGuide(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if guide.UserID != actingUserID {
		return nil, utils.NewForbidden("only the assigned guide may complete this tour")
	}

	now := s.now()
	updated, err := s.Repo.Transition(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusStarted},
		models.BookingUpdate{Status: models.BookingStatusCompleted, EndTime: &now})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NewInvalidTransition("cannot complete tour from status %s", b.Status)
		}
		return nil, err
	}

	s.Notifier.Publish(updated.TouristID, models.EventTypeBooking,
		map[string]any{"bookingId": updated.ID, "status": updated.Status})

	s.Logger.Info("tour completed", zap.String("bookingId", updated.ID))
	return updated, nil
}

// CancelBooking cancels from any non-terminal state. Either participant
// may cancel; the refund tier comes from the time remaining until the
// scheduled date, so instant bookings refund nothing.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, actingUserID string) (*models.CancelBookingResponse, error) {
	b, guide, err := s.loadWithGuide(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actingUserID != b.TouristID && actingUserID != guide.UserID {
		return nil, utils.NewForbidden("only a booking participant may cancel")
	}

	refundPct := policy.RefundTier(b.ScheduledDate, s.now())
	refundAmount := policy.RefundAmount(b.TotalPrice, refundPct)

	updated, err := s.Repo.Transition(ctx, bookingID, nonTerminal,
		models.BookingUpdate{Status: models.BookingStatusCancelled})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NewInvalidTransition("cannot cancel booking in status %s", b.Status)
		}
		return nil, err
	}

	if updated.StripePaymentID != "" && refundAmount > 0 {
		if _, err := s.Payments.Refund(ctx, updated.ID, updated.StripePaymentID, refundAmount); err != nil {
			// The booking is already cancelled; the refund retries through
			// the gateway's idempotency key on a support path.
			s.Logger.Error("refund failed after cancellation",
				zap.String("bookingId", updated.ID), zap.Error(err))
			return nil, err
		}
	}

	s.Notifier.Publish(updated.TouristID, models.EventTypeBooking, map[string]any{
		"bookingId":        updated.ID,
		"status":           updated.Status,
		"refundPercentage": refundPct,
	})
	s.Notifier.Publish(guide.UserID, models.EventTypeBooking, map[string]any{
		"bookingId": updated.ID,
		"status":    updated.Status,
	})

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", updated.ID),
		zap.Float64("refundPercentage", refundPct))

	return &models.CancelBookingResponse{
		Booking:          updated,
		RefundPercentage: refundPct,
		RefundAmount:     refundAmount,
	}, nil
}

// loadWithGuide fetches a booking together with its guide, mapping
// missing records to NotFound.
func (s *DefaultBookingService) loadWithGuide(ctx context.Context, bookingID string) (*models.Booking, *models.Guide, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, nil, utils.NewNotFound("booking %s not found", bookingID)
		}
		return nil, nil, err
	}
	guide, err := s.GuideRepo.GetByID(ctx, b.GuideID)
	if err != nil {
		if errors.Is(err, guideRepo.ErrNotFound) {
			return nil, nil, utils.NewNotFound("guide %s not found", b.GuideID)
		}
		return nil, nil, err
	}
	return b, guide, nil
}

func validateInput(input models.BookingInput) error {
	if input.TouristID == "" || input.GuideID == "" {
		return utils.NewValidation("touristId and guideId are required")
	}
	switch input.Type {
	case models.BookingTypeInstant:
		if input.ScheduledDate != nil {
			return utils.NewValidation("instant bookings take no scheduled date")
		}
	case models.BookingTypeScheduled:
		if input.ScheduledDate == nil {
			return utils.NewValidation("scheduled bookings require a scheduled date")
		}
	default:
		return utils.NewValidation("unknown booking type %q", input.Type)
	}
	if input.Duration < 30 {
		return utils.NewValidation("duration must be at least 30 minutes")
	}
	if len(input.MeetingPoint) < 5 {
		return utils.NewValidation("meeting point must be at least 5 characters")
	}
	if input.TotalPrice < 0 {
		return utils.NewValidation("total price must not be negative")
	}
	return nil
}
