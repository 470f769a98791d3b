package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/payments"
)

type SubscriptionRepository interface {
	ListPlans(ctx context.Context) ([]domain.Subscription, error)
	GetPlanBySubsID(ctx context.Context, subsID string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]domain.UserSubscription, error)
	GetActive(ctx context.Context, userID, subsID string, now time.Time) (*domain.UserSubscription, error)
	Create(ctx context.Context, us *domain.UserSubscription) error
	UpdateExpiry(ctx context.Context, id string, expiredAt time.Time, now time.Time) error
}

type CheckoutRedirect struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type SubscriptionService struct {
	subs     SubscriptionRepository
	checkout payments.Checkout
	now      func() time.Time
}

func NewSubscriptionService(subs SubscriptionRepository, checkout payments.Checkout, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{
		subs:     subs,
		checkout: checkout,
		now:      now,
	}
}

func (s *SubscriptionService) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	return s.subs.ListPlans(ctx)
}

func (s *SubscriptionService) UserSubscriptions(ctx context.Context, userID string) ([]domain.UserSubscription, error) {
	return s.subs.ListByUser(ctx, userID)
}

// Subscribe opens a checkout session for the given plan. The user and plan
// ids ride along as session metadata and come back in ConfirmCheckout.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, subsID string) (*CheckoutRedirect, error) {
	plan, err := s.subs.GetPlanBySubsID(ctx, subsID)
	if err != nil {
		return nil, err
	}

	active, err := s.subs.GetActive(ctx, userID, subsID, s.now())
	if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
		slog.Error("subscription.subscribe.getActive failed", slog.Any("err", err))
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrAlreadySubscribed
	}

	cents, err := priceCents(plan.Price)
	if err != nil {
		slog.Error("subscription.subscribe.badPrice", slog.String("subs_id", subsID), slog.Any("err", err))
		return nil, err
	}

	sess, err := s.checkout.CreateSession(ctx, payments.CreateSessionParams{
		ProductName: plan.Name,
		AmountCents: cents,
		Metadata: map[string]string{
			"user_id": userID,
			"subs_id": subsID,
		},
	})
	if err != nil {
		slog.Error("subscription.subscribe.createSession failed", slog.Any("err", err))
		return nil, err
	}

	return &CheckoutRedirect{SessionID: sess.ID, URL: sess.URL}, nil
}

// ConfirmCheckout verifies a paid session and activates (or extends) the
// user's subscription. Extending stacks on top of the current expiry.
func (s *SubscriptionService) ConfirmCheckout(ctx context.Context, sessionID string) (*domain.UserSubscription, error) {
	sess, err := s.checkout.GetSession(ctx, sessionID)
	if err != nil {
		slog.Error("subscription.confirm.getSession failed", slog.Any("err", err))
		return nil, err
	}
	if !sess.Paid() {
		return nil, domain.ErrPaymentPending
	}

	userID := sess.Metadata["user_id"]
	subsID := sess.Metadata["subs_id"]
	if userID == "" || subsID == "" {
		return nil, errors.New("checkout session is missing subscription metadata")
	}

	plan, err := s.subs.GetPlanBySubsID(ctx, subsID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	duration := time.Duration(plan.DurationDays) * 24 * time.Hour

	existing, err := s.subs.GetActive(ctx, userID, subsID, now)
	if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, err
	}
	if existing != nil && existing.ExpiredAt != nil {
		expiredAt := existing.ExpiredAt.Add(duration)
		if err := s.subs.UpdateExpiry(ctx, existing.ID, expiredAt, now); err != nil {
			return nil, err
		}
		existing.Status = "active"
		existing.ExpiredAt = &expiredAt
		return existing, nil
	}

	expiredAt := now.Add(duration)
	us := &domain.UserSubscription{
		UserID:              userID,
		SubsID:              subsID,
		Status:              "active",
		FeatureEntitlements: plan.FeatureEntitlements,
		ExpiredAt:           &expiredAt,
	}
	if err := s.subs.Create(ctx, us); err != nil {
		slog.Error("subscription.confirm.create failed", slog.Any("err", err))
		return nil, err
	}
	return us, nil
}

func priceCents(price string) (int64, error) {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v * 100)), nil
}
