package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/fitlifehq/gym-api/internal/models"
)

// StripeProvider charges through Stripe PaymentIntents. Amounts are sent in
// the smallest currency unit.
type StripeProvider struct {
	secretKey     string
	webhookSecret string
	currency      string
}

func NewStripe(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		currency:      "usd",
	}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) Configured() bool { return p.secretKey != "" }

func (p *StripeProvider) CreateIntent(ctx context.Context, plan *models.MembershipPlan, user *models.User) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(math.Round(plan.Price * 100))),
		Currency:    stripe.String(p.currency),
		Description: stripe.String(fmt.Sprintf("Membership: %s", plan.Name)),
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))
	params.AddMetadata("plan_id", strconv.FormatUint(uint64(plan.ID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	return &Intent{
		Provider:    p.Name(),
		IntentID:    pi.ID,
		ClientToken: pi.ClientSecret,
		Amount:      plan.Price,
		Currency:    p.currency,
	}, nil
}

// Confirm re-fetches the intent from Stripe and accepts only a succeeded
// status. The caller-supplied transaction id is never trusted on its own.
func (p *StripeProvider) Confirm(ctx context.Context, in ConfirmInput) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(in.IntentID, params)
	if err != nil {
		return fmt.Errorf("stripe fetch intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("stripe intent %s not succeeded (status %s)", in.IntentID, pi.Status)
	}
	return nil
}

func (p *StripeProvider) VerifyWebhook(r *http.Request, body []byte) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook signature: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe webhook payload: %w", err)
		}
		kind := EventSucceeded
		if event.Type == "payment_intent.payment_failed" {
			kind = EventFailed
		}
		ev := &WebhookEvent{Type: kind, IntentID: pi.ID}
		if pi.LatestCharge != nil {
			ev.TransactionID = pi.LatestCharge.ID
		}
		return ev, nil
	default:
		return &WebhookEvent{Type: EventIgnored}, nil
	}
}
