package location

import (
	"context"

	locationRepo "guidely/database/repository/location"
	"guidely/models"
	"guidely/services/booking"
	"guidely/services/notification"
	"guidely/utils"

	"go.uber.org/zap"
)

// historyLimit caps how many recent pings a history query returns.
const historyLimit = 50

// LocationService records guide position pings during an active tour.
type LocationService interface {
	Record(ctx context.Context, bookingID, actingUserID string, lat, lon float64) (*models.LocationUpdate, error)
	History(ctx context.Context, bookingID string) ([]models.LocationUpdate, error)
}

// DefaultLocationService implements LocationService.
type DefaultLocationService struct {
	Repo       locationRepo.LocationRepository
	BookingSvc booking.BookingService
	Notifier   notification.Publisher
	Logger     *zap.Logger
}

// Record appends a position ping. Only the assigned guide may record, and
// only while the tour is underway.
func (s *DefaultLocationService) Record(ctx context.Context, bookingID, actingUserID string, lat, lon float64) (*models.LocationUpdate, error) {
	if lat < -90 || lat > 90 {
		return nil, utils.NewValidation("latitude must be within [-90,90]")
	}
	if lon < -180 || lon > 180 {
		return nil, utils.NewValidation("longitude must be within [-180,180]")
	}

	participants, err := s.BookingSvc.Participants(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actingUserID != participants.GuideUserID {
		return nil, utils.NewForbidden("only the assigned guide may record locations")
	}
	if participants.Booking.Status != models.BookingStatusStarted {
		return nil, utils.NewInvalidState("booking %s has no active tour", bookingID)
	}

	loc := &models.LocationUpdate{
		BookingID: bookingID,
		Latitude:  lat,
		Longitude: lon,
	}
	if err := s.Repo.Create(ctx, loc); err != nil {
		return nil, err
	}

	s.Notifier.Publish(participants.TouristUserID, models.EventTypeLocation, map[string]any{
		"bookingId": bookingID,
		"lat":       lat,
		"lon":       lon,
	})

	s.Logger.Debug("location recorded", zap.String("bookingId", bookingID))
	return loc, nil
}

// History returns up to the 50 most recent pings, newest first.
func (s *DefaultLocationService) History(ctx context.Context, bookingID string) ([]models.LocationUpdate, error) {
	if _, err := s.BookingSvc.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.Repo.History(ctx, bookingID, historyLimit)
}
