package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/fitlifehq/gym-api/internal/models"
)

// MercadoPagoProvider charges through Checkout Pro preferences. Each intent
// carries a generated external reference so webhook notifications, which only
// name the resulting payment, can be traced back to our record.
type MercadoPagoProvider struct {
	accessToken   string
	webhookSecret string
	preferences   preference.Client
	payments      payment.Client
}

func NewMercadoPago(accessToken, webhookSecret string) (*MercadoPagoProvider, error) {
	p := &MercadoPagoProvider{accessToken: accessToken, webhookSecret: webhookSecret}
	if accessToken == "" {
		return p, nil
	}
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	p.preferences = preference.NewClient(cfg)
	p.payments = payment.NewClient(cfg)
	return p, nil
}

func (p *MercadoPagoProvider) Name() string { return "mercadopago" }

func (p *MercadoPagoProvider) Configured() bool { return p.accessToken != "" }

func (p *MercadoPagoProvider) CreateIntent(ctx context.Context, plan *models.MembershipPlan, user *models.User) (*Intent, error) {
	ref := uuid.NewString()
	req := preference.Request{
		ExternalReference: ref,
		Items: []preference.ItemRequest{
			{
				Title:       plan.Name,
				Description: fmt.Sprintf("Membership for %s", user.Email),
				Quantity:    1,
				UnitPrice:   plan.Price,
				CurrencyID:  "BRL",
			},
		},
	}
	resp, err := p.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference: %w", err)
	}
	return &Intent{
		Provider:    p.Name(),
		IntentID:    ref,
		ClientToken: resp.InitPoint,
		Amount:      plan.Price,
		Currency:    "BRL",
	}, nil
}

// Confirm fetches the payment named by the caller and accepts it only when
// approved and bound to the expected external reference.
func (p *MercadoPagoProvider) Confirm(ctx context.Context, in ConfirmInput) error {
	id, err := strconv.Atoi(in.TransactionID)
	if err != nil {
		return fmt.Errorf("mercadopago payment id %q: %w", in.TransactionID, err)
	}
	resp, err := p.payments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mercadopago fetch payment: %w", err)
	}
	if resp.ExternalReference != in.IntentID {
		return fmt.Errorf("mercadopago payment %d does not match reference %s", id, in.IntentID)
	}
	if resp.Status != "approved" {
		return fmt.Errorf("mercadopago payment %d not approved (status %s)", id, resp.Status)
	}
	return nil
}

type mpNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (p *MercadoPagoProvider) VerifyWebhook(r *http.Request, body []byte) (*WebhookEvent, error) {
	var note mpNotification
	if err := json.Unmarshal(body, &note); err != nil {
		return nil, fmt.Errorf("mercadopago webhook payload: %w", err)
	}
	dataID := note.Data.ID
	if q := r.URL.Query().Get("data.id"); q != "" {
		dataID = q
	}
	if err := p.checkSignature(r, dataID); err != nil {
		return nil, err
	}
	if note.Type != "payment" || dataID == "" {
		return &WebhookEvent{Type: EventIgnored}, nil
	}

	id, err := strconv.Atoi(dataID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago webhook payment id %q: %w", dataID, err)
	}
	resp, err := p.payments.Get(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago fetch payment: %w", err)
	}

	ev := &WebhookEvent{
		IntentID:      resp.ExternalReference,
		TransactionID: dataID,
	}
	switch resp.Status {
	case "approved":
		ev.Type = EventSucceeded
	case "rejected", "cancelled":
		ev.Type = EventFailed
	default:
		ev.Type = EventIgnored
	}
	return ev, nil
}

// checkSignature recomputes the x-signature HMAC over the documented
// manifest id:{data.id};request-id:{x-request-id};ts:{ts};
func (p *MercadoPagoProvider) checkSignature(r *http.Request, dataID string) error {
	sig := r.Header.Get("x-signature")
	var ts, v1 string
	for _, part := range strings.Split(sig, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return fmt.Errorf("mercadopago webhook signature missing")
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;",
		strings.ToLower(dataID), r.Header.Get("x-request-id"), ts)
	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return fmt.Errorf("mercadopago webhook signature mismatch")
	}
	return nil
}
