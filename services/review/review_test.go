package review

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	guideRepo "guidely/database/repository/guide"
	reviewRepo "guidely/database/repository/review"
	"guidely/models"
	"guidely/services/booking"
	"guidely/utils"

	"go.uber.org/zap"
)

// stubBookingSvc serves a single booking through the read path. The
// embedded interface panics on anything else, which no test touches.
type stubBookingSvc struct {
	booking.BookingService
	b *models.Booking
}

func (s *stubBookingSvc) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	if s.b == nil || s.b.ID != id {
		return nil, utils.NewNotFound("booking %s not found", id)
	}
	cp := *s.b
	return &cp, nil
}

// fakeReviewRepo enforces the per-booking uniqueness the way the store's
// unique index does: inside one critical section.
type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*models.Review // keyed by bookingID
	nextID  int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reviews[rev.BookingID]; exists {
		return reviewRepo.ErrDuplicate
	}
	r.nextID++
	if rev.ID == "" {
		rev.ID = fmt.Sprintf("rev-%d", r.nextID)
	}
	cp := *rev
	r.reviews[rev.BookingID] = &cp
	return nil
}

func (r *fakeReviewRepo) GetByBooking(_ context.Context, bookingID string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[bookingID]
	if !ok {
		return nil, reviewRepo.ErrNotFound
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) ListByGuide(_ context.Context, guideID string, page, limit int) ([]models.Review, error) {
	all, _ := r.ListAllByGuide(context.Background(), guideID)
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *fakeReviewRepo) ListAllByGuide(_ context.Context, guideID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Review
	for _, rev := range r.reviews {
		if rev.GuideID == guideID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

// fakeGuideRepo records rating writes.
type fakeGuideRepo struct {
	mu       sync.Mutex
	guide    models.Guide
	average  float64
	total    int
	written  int
}

func (r *fakeGuideRepo) Create(_ context.Context, g *models.Guide) error { return nil }

func (r *fakeGuideRepo) GetByID(_ context.Context, id string) (*models.Guide, error) {
	if id != r.guide.ID {
		return nil, guideRepo.ErrNotFound
	}
	cp := r.guide
	return &cp, nil
}

func (r *fakeGuideRepo) GetByUserID(_ context.Context, userID string) (*models.Guide, error) {
	return nil, guideRepo.ErrNotFound
}

func (r *fakeGuideRepo) UpdateRating(_ context.Context, guideID string, averageRating float64, totalReviews int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.average = averageRating
	r.total = totalReviews
	r.written++
	return nil
}

func (r *fakeGuideRepo) SetAvailability(_ context.Context, guideID string, available bool) error {
	return nil
}

func newService(b *models.Booking) (*DefaultReviewService, *fakeReviewRepo, *fakeGuideRepo) {
	repo := newFakeReviewRepo()
	guides := &fakeGuideRepo{guide: models.Guide{ID: "g1", UserID: "guide-user"}}
	svc := &DefaultReviewService{
		Repo:       repo,
		GuideRepo:  guides,
		BookingSvc: &stubBookingSvc{b: b},
		Logger:     zap.NewNop(),
	}
	return svc, repo, guides
}

func completedBooking() *models.Booking {
	return &models.Booking{
		ID:        "bk-1",
		TouristID: "tourist-user",
		GuideID:   "g1",
		Status:    models.BookingStatusCompleted,
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("success recomputes guide rating", func(t *testing.T) {
		svc, _, guides := newService(completedBooking())

		rev, err := svc.Create(context.Background(), "bk-1", "tourist-user", 5, "wonderful walk")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rev.GuideID != "g1" || rev.Rating != 5 {
			t.Errorf("review = %+v", rev)
		}
		if guides.total != 1 || guides.average != 5.0 {
			t.Errorf("rating = %v/%d, want 5.0/1", guides.average, guides.total)
		}
	})

	t.Run("mean over multiple reviews", func(t *testing.T) {
		svc, repo, guides := newService(completedBooking())
		// Two earlier reviews for the same guide on other bookings.
		repo.Create(context.Background(), &models.Review{BookingID: "bk-a", GuideID: "g1", Rating: 2})
		repo.Create(context.Background(), &models.Review{BookingID: "bk-b", GuideID: "g1", Rating: 3})

		if _, err := svc.Create(context.Background(), "bk-1", "tourist-user", 4, ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if guides.total != 3 {
			t.Errorf("totalReviews = %d, want 3", guides.total)
		}
		if math.Abs(guides.average-3.0) > 1e-9 {
			t.Errorf("averageRating = %v, want 3.0", guides.average)
		}
	})

	t.Run("duplicate review", func(t *testing.T) {
		svc, _, guides := newService(completedBooking())
		if _, err := svc.Create(context.Background(), "bk-1", "tourist-user", 5, ""); err != nil {
			t.Fatalf("first review: %v", err)
		}
		_, err := svc.Create(context.Background(), "bk-1", "tourist-user", 1, "changed my mind")
		if !utils.HasCode(err, utils.CodeDuplicateReview) {
			t.Errorf("expected duplicateReview, got %v", err)
		}
		if guides.written != 1 {
			t.Errorf("rating rewritten on duplicate: %d writes", guides.written)
		}
	})

	t.Run("concurrent submissions race to one winner", func(t *testing.T) {
		svc, _, _ := newService(completedBooking())

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Create(context.Background(), "bk-1", "tourist-user", 4, "")
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else if !utils.HasCode(err, utils.CodeDuplicateReview) {
				t.Errorf("unexpected error: %v", err)
			}
		}
		if winners != 1 {
			t.Errorf("expected exactly one winner, got %d", winners)
		}
	})

	t.Run("incomplete booking", func(t *testing.T) {
		b := completedBooking()
		b.Status = models.BookingStatusStarted
		svc, _, _ := newService(b)
		_, err := svc.Create(context.Background(), "bk-1", "tourist-user", 5, "")
		if !utils.HasCode(err, utils.CodeInvalidState) {
			t.Errorf("expected invalidState, got %v", err)
		}
	})

	t.Run("wrong tourist", func(t *testing.T) {
		svc, _, _ := newService(completedBooking())
		_, err := svc.Create(context.Background(), "bk-1", "someone-else", 5, "")
		if !utils.HasCode(err, utils.CodeForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _, _ := newService(completedBooking())
		_, err := svc.Create(context.Background(), "nope", "tourist-user", 5, "")
		if !utils.HasCode(err, utils.CodeNotFound) {
			t.Errorf("expected notFound, got %v", err)
		}
	})

	t.Run("rating bounds", func(t *testing.T) {
		svc, _, _ := newService(completedBooking())
		for _, rating := range []int{0, 6, -1} {
			if _, err := svc.Create(context.Background(), "bk-1", "tourist-user", rating, ""); !utils.HasCode(err, utils.CodeValidation) {
				t.Errorf("rating %d: expected validationError, got %v", rating, err)
			}
		}
	})
}

func TestGetForBooking(t *testing.T) {
	svc, _, _ := newService(completedBooking())
	if _, err := svc.GetForBooking(context.Background(), "bk-1"); !utils.HasCode(err, utils.CodeNotFound) {
		t.Errorf("expected notFound before any review, got %v", err)
	}

	if _, err := svc.Create(context.Background(), "bk-1", "tourist-user", 4, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rev, err := svc.GetForBooking(context.Background(), "bk-1")
	if err != nil {
		t.Fatalf("GetForBooking: %v", err)
	}
	if rev.Rating != 4 {
		t.Errorf("rating = %d, want 4", rev.Rating)
	}
}
