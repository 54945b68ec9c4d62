package booking

import (
	"context"
	"errors"

	bookingRepo "guidely/database/repository/booking"
	guideRepo "guidely/database/repository/guide"
	"guidely/models"
	"guidely/utils"
)

// GetBooking returns a booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NewNotFound("booking %s not found", id)
		}
		return nil, err
	}
	return b, nil
}

// Participants identifies the two user identities attached to a booking.
// Authorization in the engine is always booking-specific, so collaborators
// resolve participants through this read path rather than by role.
type Participants struct {
	Booking       *models.Booking
	TouristUserID string
	GuideUserID   string
}

// Other returns the counterpart of the given participant user ID.
func (p *Participants) Other(userID string) string {
	if userID == p.TouristUserID {
		return p.GuideUserID
	}
	return p.TouristUserID
}

// Contains reports whether userID is one of the two participants.
func (p *Participants) Contains(userID string) bool {
	return userID == p.TouristUserID || userID == p.GuideUserID
}

// Participants resolves the tourist and guide user identities of a booking.
func (s *DefaultBookingService) Participants(ctx context.Context, bookingID string) (*Participants, error) {
	b, guide, err := s.loadWithGuide(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &Participants{
		Booking:       b,
		TouristUserID: b.TouristID,
		GuideUserID:   guide.UserID,
	}, nil
}

// ListForUser returns the caller's bookings. Tourists are keyed by user
// ID directly; guides resolve through their guide profile.
func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Booking, error) {
	switch role {
	case models.RoleTourist:
		return s.Repo.ListByTourist(ctx, userID)
	case models.RoleGuide:
		guide, err := s.GuideRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, guideRepo.ErrNotFound) {
				return nil, utils.NewNotFound("no guide profile for user %s", userID)
			}
			return nil, err
		}
		return s.Repo.ListByGuide(ctx, guide.ID)
	case models.RoleAdmin:
		return nil, utils.NewValidation("admin accounts hold no bookings")
	default:
		return nil, utils.NewValidation("unknown role %q", role)
	}
}
