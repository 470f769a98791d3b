package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetsync/meeting-service/internal/domain"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	query := `SELECT id, name, description, subs_id, price, duration_days, feature_entitlements, created_at, updated_at
		FROM subscriptions ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.SubsID, &s.Price, &s.DurationDays, &s.FeatureEntitlements, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, s)
	}
	return plans, rows.Err()
}

func (r *SubscriptionRepository) GetPlanBySubsID(ctx context.Context, subsID string) (*domain.Subscription, error) {
	var s domain.Subscription
	query := `SELECT id, name, description, subs_id, price, duration_days, feature_entitlements, created_at, updated_at
		FROM subscriptions WHERE subs_id=$1`
	err := r.db.QueryRow(ctx, query, subsID).
		Scan(&s.ID, &s.Name, &s.Description, &s.SubsID, &s.Price, &s.DurationDays, &s.FeatureEntitlements, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.UserSubscription, error) {
	query := `SELECT id, user_id, subs_id, status, feature_entitlements, expired_at, created_at, updated_at
		FROM user_subscriptions WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.UserSubscription
	for rows.Next() {
		var us domain.UserSubscription
		if err := rows.Scan(&us.ID, &us.UserID, &us.SubsID, &us.Status, &us.FeatureEntitlements, &us.ExpiredAt, &us.CreatedAt, &us.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, us)
	}
	return subs, rows.Err()
}

// GetActive returns the user's unexpired subscription for the plan, if any.
func (r *SubscriptionRepository) GetActive(ctx context.Context, userID, subsID string, now time.Time) (*domain.UserSubscription, error) {
	var us domain.UserSubscription
	query := `SELECT id, user_id, subs_id, status, feature_entitlements, expired_at, created_at, updated_at
		FROM user_subscriptions
		WHERE user_id=$1 AND subs_id=$2 AND status='active'
		  AND (expired_at IS NULL OR expired_at > $3)
		ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRow(ctx, query, userID, subsID, now).
		Scan(&us.ID, &us.UserID, &us.SubsID, &us.Status, &us.FeatureEntitlements, &us.ExpiredAt, &us.CreatedAt, &us.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &us, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, us *domain.UserSubscription) error {
	query := `
		INSERT INTO user_subscriptions (user_id, subs_id, status, feature_entitlements, expired_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, us.UserID, us.SubsID, us.Status, us.FeatureEntitlements, us.ExpiredAt).
		Scan(&us.ID, &us.CreatedAt, &us.UpdatedAt)
}

func (r *SubscriptionRepository) UpdateExpiry(ctx context.Context, id string, expiredAt time.Time, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_subscriptions SET status='active', expired_at=$2, updated_at=$3 WHERE id=$1`,
		id, expiredAt, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}
