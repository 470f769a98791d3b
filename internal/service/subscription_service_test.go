package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/payments"
)

type fakeSubsRepo struct {
	plans   map[string]*domain.Subscription
	active  map[string]*domain.UserSubscription // keyed userID+"/"+subsID
	created []*domain.UserSubscription
	updated map[string]time.Time
}

func newFakeSubsRepo() *fakeSubsRepo {
	return &fakeSubsRepo{
		plans:   map[string]*domain.Subscription{},
		active:  map[string]*domain.UserSubscription{},
		updated: map[string]time.Time{},
	}
}

func (f *fakeSubsRepo) ListPlans(context.Context) ([]domain.Subscription, error) {
	var out []domain.Subscription
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeSubsRepo) GetPlanBySubsID(_ context.Context, subsID string) (*domain.Subscription, error) {
	p, ok := f.plans[subsID]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	return p, nil
}

func (f *fakeSubsRepo) ListByUser(context.Context, string) ([]domain.UserSubscription, error) {
	return nil, nil
}

func (f *fakeSubsRepo) GetActive(_ context.Context, userID, subsID string, _ time.Time) (*domain.UserSubscription, error) {
	us, ok := f.active[userID+"/"+subsID]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	return us, nil
}

func (f *fakeSubsRepo) Create(_ context.Context, us *domain.UserSubscription) error {
	us.ID = "us-1"
	f.created = append(f.created, us)
	return nil
}

func (f *fakeSubsRepo) UpdateExpiry(_ context.Context, id string, expiredAt time.Time, _ time.Time) error {
	f.updated[id] = expiredAt
	return nil
}

type fakeCheckout struct {
	createdParams []payments.CreateSessionParams
	session       *payments.CheckoutSession
}

func (f *fakeCheckout) CreateSession(_ context.Context, params payments.CreateSessionParams) (*payments.CheckoutSession, error) {
	f.createdParams = append(f.createdParams, params)
	return &payments.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}

func (f *fakeCheckout) GetSession(context.Context, string) (*payments.CheckoutSession, error) {
	return f.session, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func proPlan() *domain.Subscription {
	return &domain.Subscription{
		ID:           "1",
		Name:         "Pro",
		SubsID:       "pro",
		Price:        "9.99",
		DurationDays: 30,
	}
}

func TestSubscribe_CreatesCheckoutSession(t *testing.T) {
	repo := newFakeSubsRepo()
	repo.plans["pro"] = proPlan()
	checkout := &fakeCheckout{}
	svc := NewSubscriptionService(repo, checkout, fixedNow)

	redirect, err := svc.Subscribe(context.Background(), "u1", "pro")
	require.NoError(t, err)
	assert.Equal(t, "cs_test", redirect.SessionID)
	assert.Equal(t, "https://checkout.test/cs_test", redirect.URL)

	require.Len(t, checkout.createdParams, 1)
	params := checkout.createdParams[0]
	assert.Equal(t, int64(999), params.AmountCents)
	assert.Equal(t, "Pro", params.ProductName)
	assert.Equal(t, "u1", params.Metadata["user_id"])
	assert.Equal(t, "pro", params.Metadata["subs_id"])
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	svc := NewSubscriptionService(newFakeSubsRepo(), &fakeCheckout{}, fixedNow)

	_, err := svc.Subscribe(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestSubscribe_AlreadyActive(t *testing.T) {
	repo := newFakeSubsRepo()
	repo.plans["pro"] = proPlan()
	exp := fixedNow().Add(24 * time.Hour)
	repo.active["u1/pro"] = &domain.UserSubscription{ID: "us-0", UserID: "u1", SubsID: "pro", ExpiredAt: &exp}

	svc := NewSubscriptionService(repo, &fakeCheckout{}, fixedNow)

	_, err := svc.Subscribe(context.Background(), "u1", "pro")
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

func TestConfirmCheckout_ActivatesSubscription(t *testing.T) {
	repo := newFakeSubsRepo()
	repo.plans["pro"] = proPlan()
	checkout := &fakeCheckout{
		session: &payments.CheckoutSession{
			ID:            "cs_test",
			PaymentStatus: "paid",
			Metadata:      map[string]string{"user_id": "u1", "subs_id": "pro"},
		},
	}
	svc := NewSubscriptionService(repo, checkout, fixedNow)

	us, err := svc.ConfirmCheckout(context.Background(), "cs_test")
	require.NoError(t, err)
	assert.Equal(t, "active", us.Status)
	require.NotNil(t, us.ExpiredAt)
	assert.Equal(t, fixedNow().Add(30*24*time.Hour), *us.ExpiredAt)
	require.Len(t, repo.created, 1)
}

func TestConfirmCheckout_ExtendsExistingExpiry(t *testing.T) {
	repo := newFakeSubsRepo()
	repo.plans["pro"] = proPlan()
	exp := fixedNow().Add(5 * 24 * time.Hour)
	repo.active["u1/pro"] = &domain.UserSubscription{ID: "us-0", UserID: "u1", SubsID: "pro", ExpiredAt: &exp}

	checkout := &fakeCheckout{
		session: &payments.CheckoutSession{
			ID:            "cs_test",
			PaymentStatus: "paid",
			Metadata:      map[string]string{"user_id": "u1", "subs_id": "pro"},
		},
	}
	svc := NewSubscriptionService(repo, checkout, fixedNow)

	us, err := svc.ConfirmCheckout(context.Background(), "cs_test")
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	assert.Equal(t, exp.Add(30*24*time.Hour), repo.updated["us-0"])
	assert.Equal(t, exp.Add(30*24*time.Hour), *us.ExpiredAt)
}

func TestConfirmCheckout_UnpaidSession(t *testing.T) {
	checkout := &fakeCheckout{
		session: &payments.CheckoutSession{ID: "cs_test", PaymentStatus: "unpaid"},
	}
	svc := NewSubscriptionService(newFakeSubsRepo(), checkout, fixedNow)

	_, err := svc.ConfirmCheckout(context.Background(), "cs_test")
	assert.ErrorIs(t, err, domain.ErrPaymentPending)
}
