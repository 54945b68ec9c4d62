package payment

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"guidely/models"
	"guidely/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Gateway is the payment collaborator consumed by the booking engine. The
// engine treats gateway failures opaquely: success or PaymentError, never
// gateway-specific codes.
type Gateway interface {
	CreateIntent(ctx context.Context, bookingID string, amount float64, currency string) (*models.PaymentIntent, error)
	Refund(ctx context.Context, bookingID, intentID string, amount float64) (*models.RefundRecord, error)
	VerifyWebhook(payload []byte, signature string) (*models.PaymentEvent, error)
}

// StripeGateway implements Gateway on Stripe PaymentIntents.
type StripeGateway struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway configures the global Stripe key and returns a gateway.
func NewStripeGateway(apiKey, webhookSecret string, logger *zap.Logger) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{webhookSecret: webhookSecret, logger: logger}
}

// minorUnits converts a 2-decimal monetary amount to minor currency units.
func minorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// CreateIntent opens a charge for the booking. The idempotency key is
// derived from the booking ID, so caller-side retries reuse the same
// intent instead of opening a second charge.
func (g *StripeGateway) CreateIntent(ctx context.Context, bookingID string, amount float64, currency string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("booking-intent-" + bookingID)
	params.AddMetadata("bookingId", bookingID)

	intent, err := paymentintent.New(params)
	if err != nil {
		g.logger.Warn("payment intent creation failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, utils.NewPaymentError("failed to open payment intent")
	}
	return &models.PaymentIntent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// Refund returns part or all of a charge. The idempotency key is derived
// from the booking, so a retried cancellation cannot refund twice.
func (g *StripeGateway) Refund(ctx context.Context, bookingID, intentID string, amount float64) (*models.RefundRecord, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(minorUnits(amount)),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("booking-refund-" + bookingID)

	ref, err := refund.New(params)
	if err != nil {
		g.logger.Warn("refund failed",
			zap.String("bookingId", bookingID), zap.String("intentId", intentID), zap.Error(err))
		return nil, utils.NewPaymentError("failed to execute refund")
	}
	return &models.RefundRecord{
		RefundID:  ref.ID,
		IntentID:  intentID,
		Amount:    float64(ref.Amount) / 100,
		Currency:  string(ref.Currency),
		CreatedAt: time.Unix(ref.Created, 0),
	}, nil
}

// VerifyWebhook checks the gateway signature and extracts the event the
// engine cares about. A bad signature is a PaymentError and must not
// mutate any booking state; unrelated event types return a PaymentEvent
// with an empty booking ID, which the handler ignores.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, utils.NewPaymentError("webhook signature verification failed")
	}

	out := &models.PaymentEvent{Type: string(event.Type)}
	if event.Type != "payment_intent.succeeded" {
		return out, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, utils.NewPaymentError("malformed webhook payload")
	}
	out.IntentID = intent.ID
	out.BookingID = intent.Metadata["bookingId"]
	return out, nil
}
