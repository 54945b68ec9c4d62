package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "guidely/database/repository/booking"
	guideRepo "guidely/database/repository/guide"
	"guidely/models"
	"guidely/services/notification"
	"guidely/utils"

	"go.uber.org/zap"
)

// fakeBookingRepo is an in-memory BookingRepository. Transition holds the
// lock across the status check and the write, mirroring the conditional
// update of the real store.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	nextID   int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		r.nextID++
		b.ID = fmt.Sprintf("bk-%d", r.nextID)
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByTourist(_ context.Context, touristID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TouristID == touristID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByGuide(_ context.Context, guideID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.GuideID == guideID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Transition(_ context.Context, id string, from []models.BookingStatus, update models.BookingUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, bookingRepo.ErrNotFound
	}
	b.Status = update.Status
	b.UpdatedAt = time.Now()
	if update.StartTime != nil {
		b.StartTime = update.StartTime
	}
	if update.EndTime != nil {
		b.EndTime = update.EndTime
	}
	if update.StripePaymentID != nil {
		b.StripePaymentID = *update.StripePaymentID
	}
	cp := *b
	return &cp, nil
}

// seed places a booking directly in a given state.
func (r *fakeBookingRepo) seed(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := b
	r.bookings[b.ID] = &cp
}

// fakeGuideRepo is an in-memory GuideRepository.
type fakeGuideRepo struct {
	mu      sync.Mutex
	guides  map[string]*models.Guide
	ratings map[string][2]float64 // guideID -> {average, total}
}

func newFakeGuideRepo(guides ...models.Guide) *fakeGuideRepo {
	r := &fakeGuideRepo{
		guides:  make(map[string]*models.Guide),
		ratings: make(map[string][2]float64),
	}
	for i := range guides {
		cp := guides[i]
		r.guides[cp.ID] = &cp
	}
	return r
}

func (r *fakeGuideRepo) Create(_ context.Context, g *models.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.guides[g.ID] = &cp
	return nil
}

func (r *fakeGuideRepo) GetByID(_ context.Context, id string) (*models.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guides[id]
	if !ok {
		return nil, guideRepo.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGuideRepo) GetByUserID(_ context.Context, userID string) (*models.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guides {
		if g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, guideRepo.ErrNotFound
}

func (r *fakeGuideRepo) UpdateRating(_ context.Context, guideID string, averageRating float64, totalReviews int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guides[guideID]
	if !ok {
		return guideRepo.ErrNotFound
	}
	g.AverageRating = averageRating
	g.TotalReviews = totalReviews
	r.ratings[guideID] = [2]float64{averageRating, float64(totalReviews)}
	return nil
}

func (r *fakeGuideRepo) SetAvailability(_ context.Context, guideID string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guides[guideID]
	if !ok {
		return guideRepo.ErrNotFound
	}
	g.IsAvailable = available
	return nil
}

// refundCall records one gateway refund invocation.
type refundCall struct {
	bookingID string
	intentID  string
	amount    float64
}

// fakeGateway is an in-memory payment.Gateway.
type fakeGateway struct {
	mu          sync.Mutex
	intents     int
	refunds     []refundCall
	failCreate  bool
	failRefund  bool
}

func (g *fakeGateway) CreateIntent(_ context.Context, bookingID string, amount float64, currency string) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate {
		return nil, utils.NewPaymentError("failed to open payment intent")
	}
	g.intents++
	return &models.PaymentIntent{
		IntentID:     "pi_" + bookingID,
		ClientSecret: "secret_" + bookingID,
	}, nil
}

func (g *fakeGateway) Refund(_ context.Context, bookingID, intentID string, amount float64) (*models.RefundRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failRefund {
		return nil, utils.NewPaymentError("failed to execute refund")
	}
	g.refunds = append(g.refunds, refundCall{bookingID: bookingID, intentID: intentID, amount: amount})
	return &models.RefundRecord{RefundID: "re_" + bookingID, IntentID: intentID, Amount: amount}, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (*models.PaymentEvent, error) {
	if signature != "valid" {
		return nil, utils.NewPaymentError("webhook signature verification failed")
	}
	return &models.PaymentEvent{Type: "payment_intent.succeeded"}, nil
}

// testEnv bundles a booking service with its fakes.
type testEnv struct {
	svc     *DefaultBookingService
	repo    *fakeBookingRepo
	guides  *fakeGuideRepo
	gateway *fakeGateway
	fanout  *notification.Fanout
	now     time.Time
}

const (
	testGuideID     = "g1"
	testGuideUserID = "guide-user"
	testTouristID   = "tourist-user"
)

func newTestEnv() *testEnv {
	repo := newFakeBookingRepo()
	guides := newFakeGuideRepo(models.Guide{
		ID:          testGuideID,
		UserID:      testGuideUserID,
		Name:        "Ada",
		IsAvailable: true,
	})
	gateway := &fakeGateway{}
	fanout := notification.NewFanout()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := &DefaultBookingService{
		Repo:      repo,
		GuideRepo: guides,
		Payments:  gateway,
		Notifier:  fanout,
		Logger:    zap.NewNop(),
		Currency:  "gbp",
		Now:       func() time.Time { return now },
	}
	return &testEnv{svc: svc, repo: repo, guides: guides, gateway: gateway, fanout: fanout, now: now}
}

// seedBooking places a booking in the given state and returns its ID.
func (e *testEnv) seedBooking(status models.BookingStatus, mutate ...func(*models.Booking)) string {
	b := models.Booking{
		ID:            "bk-seeded-" + string(status),
		TouristID:     testTouristID,
		GuideID:       testGuideID,
		Type:          models.BookingTypeInstant,
		Status:        status,
		Duration:      60,
		MeetingPoint:  "Harbour steps",
		TotalPrice:    100,
		Commission:    15,
		GuideEarnings: 85,
	}
	for _, fn := range mutate {
		fn(&b)
	}
	e.repo.seed(b)
	return b.ID
}
