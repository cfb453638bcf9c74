package payments

import (
	"context"
	"net/http"

	"github.com/fitlifehq/gym-api/internal/models"
)

// Intent is the provider-side handle for a pending charge plus whatever the
// client needs to complete it.
type Intent struct {
	Provider    string  `json:"provider"`
	IntentID    string  `json:"intent_id"`
	ClientToken string  `json:"client_token"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type ConfirmInput struct {
	IntentID      string
	TransactionID string
	Signature     string
}

const (
	EventSucceeded = "succeeded"
	EventFailed    = "failed"
	EventIgnored   = "ignored"
)

// WebhookEvent is the provider-neutral view of an incoming webhook. Unknown
// provider event types map to EventIgnored, which is acknowledged, not an
// error.
type WebhookEvent struct {
	Type          string
	IntentID      string
	TransactionID string
}

// Provider is the capability surface both adapters implement. Selection
// happens once at boot from configuration.
type Provider interface {
	Name() string
	Configured() bool
	CreateIntent(ctx context.Context, plan *models.MembershipPlan, user *models.User) (*Intent, error)
	// Confirm establishes the canonical charge outcome: by re-fetching the
	// provider's record or by recomputing a shared-secret signature. It
	// never trusts a caller-asserted verdict.
	Confirm(ctx context.Context, in ConfirmInput) error
	// VerifyWebhook authenticates the raw body against the provider's
	// signature scheme before interpreting it.
	VerifyWebhook(r *http.Request, body []byte) (*WebhookEvent, error)
}
