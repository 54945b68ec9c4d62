package review

import (
	"context"
	"errors"

	guideRepo "guidely/database/repository/guide"
	reviewRepo "guidely/database/repository/review"
	"guidely/models"
	"guidely/services/booking"
	"guidely/utils"

	"go.uber.org/zap"
)

const maxCommentLength = 1000

// ReviewService creates reviews for completed bookings and keeps the
// guide's aggregate rating in step.
type ReviewService interface {
	Create(ctx context.Context, bookingID, touristID string, rating int, comment string) (*models.Review, error)
	ListForGuide(ctx context.Context, guideID string, page, limit int) ([]models.Review, error)
	GetForBooking(ctx context.Context, bookingID string) (*models.Review, error)
}

// DefaultReviewService implements ReviewService.
type DefaultReviewService struct {
	Repo       reviewRepo.ReviewRepository
	GuideRepo  guideRepo.GuideRepository
	BookingSvc booking.BookingService
	Logger     *zap.Logger
}

// Create persists a review for a completed booking. Uniqueness per
// booking is enforced by the store, so concurrent submissions race down
// to exactly one winner. On success the guide's rating is recomputed from
// the full review set rather than nudged incrementally.
func (s *DefaultReviewService) Create(ctx context.Context, bookingID, touristID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.NewValidation("rating must be between 1 and 5")
	}
	if len(comment) > maxCommentLength {
		return nil, utils.NewValidation("comment must be at most %d characters", maxCommentLength)
	}

	b, err := s.BookingSvc.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, utils.NewInvalidState("booking %s is not completed", bookingID)
	}
	if b.TouristID != touristID {
		return nil, utils.NewForbidden("only the booking's tourist may review it")
	}

	rev := &models.Review{
		BookingID: bookingID,
		TouristID: touristID,
		GuideID:   b.GuideID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Repo.Create(ctx, rev); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, utils.NewServiceError(utils.CodeDuplicateReview,
				"booking %s already has a review", bookingID)
		}
		return nil, err
	}

	if err := s.recomputeGuideRating(ctx, b.GuideID); err != nil {
		s.Logger.Error("failed to recompute guide rating",
			zap.String("guideId", b.GuideID), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("review created",
		zap.String("bookingId", bookingID), zap.Int("rating", rating))
	return rev, nil
}

// recomputeGuideRating reads every review for the guide and writes back
// the arithmetic mean and count.
func (s *DefaultReviewService) recomputeGuideRating(ctx context.Context, guideID string) error {
	reviews, err := s.Repo.ListAllByGuide(ctx, guideID)
	if err != nil {
		return err
	}

	total := len(reviews)
	average := 0.0
	if total > 0 {
		sum := 0
		for _, rev := range reviews {
			sum += rev.Rating
		}
		average = float64(sum) / float64(total)
	}
	return s.GuideRepo.UpdateRating(ctx, guideID, average, total)
}

// ListForGuide returns one page of a guide's reviews, newest first.
func (s *DefaultReviewService) ListForGuide(ctx context.Context, guideID string, page, limit int) ([]models.Review, error) {
	return s.Repo.ListByGuide(ctx, guideID, page, limit)
}

// GetForBooking returns the booking's review, if one exists.
func (s *DefaultReviewService) GetForBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	rev, err := s.Repo.GetByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrNotFound) {
			return nil, utils.NewNotFound("no review for booking %s", bookingID)
		}
		return nil, err
	}
	return rev, nil
}
