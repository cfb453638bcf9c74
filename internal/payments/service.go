package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

type Notifier interface {
	Notify(userID uint, typ, title, message string, data map[string]any)
}

// Service owns the payment lifecycle: intent creation, confirmation and
// webhook settlement. The provider does the money movement; the service keeps
// the local record and the member's membership window in step.
type Service struct {
	db       *gorm.DB
	provider Provider
	notifier Notifier
}

func NewService(db *gorm.DB, provider Provider, notifier Notifier) *Service {
	return &Service{db: db, provider: provider, notifier: notifier}
}

func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

func (s *Service) ensureConfigured() error {
	if s.provider == nil || !s.provider.Configured() {
		return httperr.ErrBusiness("payment_not_configured")
	}
	return nil
}

// CreateIntent opens a pending charge for a membership plan and records it
// locally keyed by the provider intent id.
func (s *Service) CreateIntent(ctx context.Context, user *models.User, planID uint) (*Intent, *models.Payment, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, nil, err
	}

	var plan models.MembershipPlan
	if err := s.db.WithContext(ctx).First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, httperr.ErrBusiness("plan_not_found")
		}
		return nil, nil, err
	}
	if !plan.Active {
		return nil, nil, httperr.ErrBusiness("plan_inactive")
	}

	intent, err := s.provider.CreateIntent(ctx, &plan, user)
	if err != nil {
		return nil, nil, err
	}

	p := models.Payment{
		UserID:      user.ID,
		PlanID:      plan.ID,
		Provider:    intent.Provider,
		IntentID:    intent.IntentID,
		Amount:      intent.Amount,
		Currency:    intent.Currency,
		Status:      models.PaymentPending,
		Description: fmt.Sprintf("Membership: %s", plan.Name),
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, nil, err
	}
	return intent, &p, nil
}

// Confirm settles a payment from the client side. The provider is always
// re-consulted for the canonical outcome before anything local changes.
func (s *Service) Confirm(ctx context.Context, userID uint, in ConfirmInput) (*models.Payment, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}

	var p models.Payment
	err := s.db.WithContext(ctx).Preload("Plan").
		Where("intent_id = ? AND user_id = ?", in.IntentID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("payment_not_found")
		}
		return nil, err
	}
	if p.Status == models.PaymentSucceeded {
		return &p, nil
	}

	if err := s.provider.Confirm(ctx, in); err != nil {
		return nil, httperr.ErrBusiness("payment_verification_failed")
	}
	if err := s.settle(ctx, &p, in.TransactionID); err != nil {
		return nil, err
	}
	return &p, nil
}

// HandleWebhook applies a provider notification. Unknown events and events
// for unknown intents are acknowledged so the provider stops retrying.
func (s *Service) HandleWebhook(r *http.Request, body []byte) error {
	if err := s.ensureConfigured(); err != nil {
		return err
	}

	ev, err := s.provider.VerifyWebhook(r, body)
	if err != nil {
		return httperr.ErrBusiness("invalid_webhook")
	}
	if ev.Type == EventIgnored || ev.IntentID == "" {
		return nil
	}

	ctx := r.Context()
	var p models.Payment
	err = s.db.WithContext(ctx).Preload("Plan").
		Where("intent_id = ?", ev.IntentID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	switch ev.Type {
	case EventSucceeded:
		if p.Status == models.PaymentSucceeded {
			return nil
		}
		return s.settle(ctx, &p, ev.TransactionID)
	case EventFailed:
		if p.Status != models.PaymentPending {
			return nil
		}
		if err := s.db.WithContext(ctx).Model(&p).Updates(map[string]any{
			"status":         models.PaymentFailed,
			"transaction_id": ev.TransactionID,
		}).Error; err != nil {
			return err
		}
		if s.notifier != nil {
			s.notifier.Notify(p.UserID, "payment", "Payment failed",
				"Your membership payment could not be processed.", map[string]any{"payment_id": p.ID})
		}
	}
	return nil
}

// settle marks the payment succeeded exactly once and extends the member's
// membership window by the plan duration, starting from now.
func (s *Service) settle(ctx context.Context, p *models.Payment, transactionID string) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status <> ?", p.ID, models.PaymentSucceeded).
		Updates(map[string]any{
			"status":         models.PaymentSucceeded,
			"transaction_id": transactionID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	p.Status = models.PaymentSucceeded
	p.TransactionID = transactionID

	start := time.Now()
	end := start.AddDate(0, p.Plan.DurationMonths, 0)
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", p.UserID).
		Updates(map[string]any{
			"membership_type":       p.Plan.Type,
			"membership_status":     "active",
			"membership_start_date": start,
			"membership_end_date":   end,
		}).Error; err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(p.UserID, "payment", "Payment received",
			fmt.Sprintf("Your %s membership is active until %s.", p.Plan.Name, end.Format("Jan 2, 2006")),
			map[string]any{"payment_id": p.ID})
	}
	return nil
}
