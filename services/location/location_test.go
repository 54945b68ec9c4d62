package location

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"guidely/models"
	"guidely/services/booking"
	"guidely/services/notification"
	"guidely/utils"

	"go.uber.org/zap"
)

const (
	bookingID   = "bk-1"
	touristID   = "tourist-user"
	guideUserID = "guide-user"
)

// stubBookingSvc serves one booking in a configurable status.
type stubBookingSvc struct {
	booking.BookingService
	status models.BookingStatus
}

func (s *stubBookingSvc) current() *models.Booking {
	return &models.Booking{ID: bookingID, TouristID: touristID, GuideID: "g1", Status: s.status}
}

func (s *stubBookingSvc) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	if id != bookingID {
		return nil, utils.NewNotFound("booking %s not found", id)
	}
	return s.current(), nil
}

func (s *stubBookingSvc) Participants(_ context.Context, id string) (*booking.Participants, error) {
	if id != bookingID {
		return nil, utils.NewNotFound("booking %s not found", id)
	}
	return &booking.Participants{
		Booking:       s.current(),
		TouristUserID: touristID,
		GuideUserID:   guideUserID,
	}, nil
}

// fakeLocationRepo is an in-memory LocationRepository.
type fakeLocationRepo struct {
	mu      sync.Mutex
	updates []models.LocationUpdate
	nextID  int
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *models.LocationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	loc.ID = fmt.Sprintf("loc-%d", r.nextID)
	loc.CreatedAt = time.Now()
	r.updates = append(r.updates, *loc)
	return nil
}

func (r *fakeLocationRepo) History(_ context.Context, id string, limit int) ([]models.LocationUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LocationUpdate
	for i := len(r.updates) - 1; i >= 0 && len(out) < limit; i-- {
		if r.updates[i].BookingID == id {
			out = append(out, r.updates[i])
		}
	}
	return out, nil
}

func newService(status models.BookingStatus) (*DefaultLocationService, *fakeLocationRepo, *notification.Fanout) {
	repo := &fakeLocationRepo{}
	fanout := notification.NewFanout()
	svc := &DefaultLocationService{
		Repo:       repo,
		BookingSvc: &stubBookingSvc{status: status},
		Notifier:   fanout,
		Logger:     zap.NewNop(),
	}
	return svc, repo, fanout
}

func TestRecord(t *testing.T) {
	t.Run("guide records during started tour", func(t *testing.T) {
		svc, repo, fanout := newService(models.BookingStatusStarted)

		loc, err := svc.Record(context.Background(), bookingID, guideUserID, 51.5074, -0.1278)
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if loc.Latitude != 51.5074 || loc.Longitude != -0.1278 {
			t.Errorf("stored %v,%v", loc.Latitude, loc.Longitude)
		}
		if len(repo.updates) != 1 {
			t.Errorf("updates = %d, want 1", len(repo.updates))
		}

		events := fanout.Poll(touristID, nil)
		if len(events) != 1 || events[0].Type != models.EventTypeLocation {
			t.Fatalf("tourist events = %v", events)
		}
		if events[0].Payload["lat"] != 51.5074 {
			t.Errorf("payload lat = %v", events[0].Payload["lat"])
		}
	})

	t.Run("tourist cannot record", func(t *testing.T) {
		svc, _, _ := newService(models.BookingStatusStarted)
		_, err := svc.Record(context.Background(), bookingID, touristID, 0, 0)
		if !utils.HasCode(err, utils.CodeForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("only a started tour accepts pings", func(t *testing.T) {
		for _, status := range []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
			models.BookingStatusCompleted,
			models.BookingStatusCancelled,
		} {
			svc, _, _ := newService(status)
			_, err := svc.Record(context.Background(), bookingID, guideUserID, 0, 0)
			if !utils.HasCode(err, utils.CodeInvalidState) {
				t.Errorf("status %s: expected invalidState, got %v", status, err)
			}
		}
	})

	t.Run("coordinate bounds", func(t *testing.T) {
		svc, _, _ := newService(models.BookingStatusStarted)
		cases := []struct{ lat, lon float64 }{
			{91, 0}, {-91, 0}, {0, 181}, {0, -181},
		}
		for _, tc := range cases {
			_, err := svc.Record(context.Background(), bookingID, guideUserID, tc.lat, tc.lon)
			if !utils.HasCode(err, utils.CodeValidation) {
				t.Errorf("(%v,%v): expected validationError, got %v", tc.lat, tc.lon, err)
			}
		}
		if _, err := svc.Record(context.Background(), bookingID, guideUserID, 90, -180); err != nil {
			t.Errorf("boundary coordinates should pass: %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	svc, _, _ := newService(models.BookingStatusStarted)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if _, err := svc.Record(ctx, bookingID, guideUserID, float64(i%90), float64(i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	history, err := svc.History(ctx, bookingID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 50 {
		t.Fatalf("history length = %d, want 50", len(history))
	}
	// Newest first: the final ping recorded is the first returned.
	if history[0].Longitude != 59 {
		t.Errorf("history[0].Longitude = %v, want 59", history[0].Longitude)
	}

	t.Run("unknown booking", func(t *testing.T) {
		if _, err := svc.History(ctx, "nope"); !utils.HasCode(err, utils.CodeNotFound) {
			t.Errorf("expected notFound, got %v", err)
		}
	})
}
