package payments_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/fitlifehq/gym-api/internal/db"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/payments"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbpkg.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// fakeProvider stands in for a real gateway; the service never cares which
// one it is talking to.
type fakeProvider struct {
	confirmCalls int
	confirmErr   error
	webhookEvent *payments.WebhookEvent
	webhookErr   error
}

func (f *fakeProvider) Name() string     { return "fake" }
func (f *fakeProvider) Configured() bool { return true }

func (f *fakeProvider) CreateIntent(ctx context.Context, plan *models.MembershipPlan, user *models.User) (*payments.Intent, error) {
	return &payments.Intent{
		Provider:    "fake",
		IntentID:    "in_123",
		ClientToken: "tok_123",
		Amount:      plan.Price,
		Currency:    "usd",
	}, nil
}

func (f *fakeProvider) Confirm(ctx context.Context, in payments.ConfirmInput) error {
	f.confirmCalls++
	return f.confirmErr
}

func (f *fakeProvider) VerifyWebhook(r *http.Request, body []byte) (*payments.WebhookEvent, error) {
	return f.webhookEvent, f.webhookErr
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(userID uint, typ, title, message string, data map[string]any) {
	f.events = append(f.events, title)
}

func seedUserAndPlan(t *testing.T, db *gorm.DB) (*models.User, *models.MembershipPlan) {
	t.Helper()
	u := models.User{Name: "ana", Email: "ana@test.local", PasswordHash: "x", Role: models.RoleMember, Active: true}
	require.NoError(t, db.Create(&u).Error)
	plan := models.MembershipPlan{Name: "Premium", Type: "premium", DurationMonths: 3, Price: 59.9, Active: true}
	require.NoError(t, db.Create(&plan).Error)
	return &u, &plan
}

func TestCreateIntentRecordsPendingPayment(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := payments.NewService(db, &fakeProvider{}, &fakeNotifier{})
	user, plan := seedUserAndPlan(t, db)

	intent, p, err := svc.CreateIntent(ctx, user, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_123", intent.IntentID)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.Equal(t, plan.Price, p.Amount)

	var stored models.Payment
	require.NoError(t, db.Where("intent_id = ?", "in_123").First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestCreateIntentGuards(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user, plan := seedUserAndPlan(t, db)

	unconfigured := payments.NewService(db, nil, &fakeNotifier{})
	_, _, err := unconfigured.CreateIntent(ctx, user, plan.ID)
	assert.True(t, httperr.IsBusiness(err, "payment_not_configured"))

	svc := payments.NewService(db, &fakeProvider{}, &fakeNotifier{})
	_, _, err = svc.CreateIntent(ctx, user, 9999)
	assert.True(t, httperr.IsBusiness(err, "plan_not_found"))

	require.NoError(t, db.Model(plan).Update("active", false).Error)
	_, _, err = svc.CreateIntent(ctx, user, plan.ID)
	assert.True(t, httperr.IsBusiness(err, "plan_inactive"))
}

func TestConfirmSettlesAndExtendsMembership(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := &fakeProvider{}
	notifier := &fakeNotifier{}
	svc := payments.NewService(db, provider, notifier)
	user, plan := seedUserAndPlan(t, db)

	_, p, err := svc.CreateIntent(ctx, user, plan.ID)
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, user.ID, payments.ConfirmInput{IntentID: p.IntentID, TransactionID: "tx_1"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, confirmed.Status)
	assert.Equal(t, "tx_1", confirmed.TransactionID)
	assert.Contains(t, notifier.events, "Payment received")

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, "active", fresh.MembershipStatus)
	assert.Equal(t, plan.Type, fresh.MembershipType)
	require.NotNil(t, fresh.MembershipEndDate)
	expected := time.Now().AddDate(0, plan.DurationMonths, 0)
	assert.WithinDuration(t, expected, *fresh.MembershipEndDate, time.Hour)

	// confirming again is idempotent and skips the provider
	calls := provider.confirmCalls
	again, err := svc.Confirm(ctx, user.ID, payments.ConfirmInput{IntentID: p.IntentID, TransactionID: "tx_1"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, again.Status)
	assert.Equal(t, calls, provider.confirmCalls)
}

func TestConfirmNeverTrustsTheCaller(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := &fakeProvider{confirmErr: errors.New("not captured")}
	svc := payments.NewService(db, provider, &fakeNotifier{})
	user, plan := seedUserAndPlan(t, db)

	_, p, err := svc.CreateIntent(ctx, user, plan.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, user.ID, payments.ConfirmInput{IntentID: p.IntentID, TransactionID: "tx_forged"})
	assert.True(t, httperr.IsBusiness(err, "payment_verification_failed"))

	var stored models.Payment
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, models.PaymentPending, stored.Status)
}

func TestConfirmScopesToOwner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := payments.NewService(db, &fakeProvider{}, &fakeNotifier{})
	user, plan := seedUserAndPlan(t, db)

	other := models.User{Name: "eve", Email: "eve@test.local", PasswordHash: "x", Active: true}
	require.NoError(t, db.Create(&other).Error)

	_, p, err := svc.CreateIntent(ctx, user, plan.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, other.ID, payments.ConfirmInput{IntentID: p.IntentID})
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))
}

func TestWebhookSettlesAndFails(t *testing.T) {
	db := setupTestDB(t)
	provider := &fakeProvider{}
	notifier := &fakeNotifier{}
	svc := payments.NewService(db, provider, notifier)
	user, plan := seedUserAndPlan(t, db)

	_, p, err := svc.CreateIntent(context.Background(), user, plan.ID)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/api/payments/webhook", nil)

	// unverifiable notification is rejected
	provider.webhookErr = errors.New("bad signature")
	err = svc.HandleWebhook(req, []byte("{}"))
	assert.True(t, httperr.IsBusiness(err, "invalid_webhook"))
	provider.webhookErr = nil

	// success event settles the payment
	provider.webhookEvent = &payments.WebhookEvent{Type: payments.EventSucceeded, IntentID: p.IntentID, TransactionID: "tx_hook"}
	require.NoError(t, svc.HandleWebhook(req, []byte("{}")))

	var stored models.Payment
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, models.PaymentSucceeded, stored.Status)
	assert.Equal(t, "tx_hook", stored.TransactionID)

	// duplicate delivery is acknowledged without side effects
	before := len(notifier.events)
	require.NoError(t, svc.HandleWebhook(req, []byte("{}")))
	assert.Len(t, notifier.events, before)

	// events for unknown intents are acknowledged so the provider stops retrying
	provider.webhookEvent = &payments.WebhookEvent{Type: payments.EventSucceeded, IntentID: "in_unknown"}
	require.NoError(t, svc.HandleWebhook(req, []byte("{}")))

	// ignored event types are a no-op
	provider.webhookEvent = &payments.WebhookEvent{Type: payments.EventIgnored}
	require.NoError(t, svc.HandleWebhook(req, []byte("{}")))
}

func TestWebhookFailureMarksPayment(t *testing.T) {
	db := setupTestDB(t)
	provider := &fakeProvider{}
	notifier := &fakeNotifier{}
	svc := payments.NewService(db, provider, notifier)
	user, plan := seedUserAndPlan(t, db)

	_, p, err := svc.CreateIntent(context.Background(), user, plan.ID)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/api/payments/webhook", nil)
	provider.webhookEvent = &payments.WebhookEvent{Type: payments.EventFailed, IntentID: p.IntentID, TransactionID: "tx_fail"}
	require.NoError(t, svc.HandleWebhook(req, []byte("{}")))

	var stored models.Payment
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, models.PaymentFailed, stored.Status)
	assert.Contains(t, notifier.events, "Payment failed")

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.NotEqual(t, "active", fresh.MembershipStatus)
}
