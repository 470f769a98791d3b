package domain

import "time"

// Subscription is a purchasable plan. SubsID is the external plan key
// referenced by user subscriptions and checkout metadata.
type Subscription struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	Description         *string        `db:"description"`
	SubsID              string         `db:"subs_id"`
	Price               string         `db:"price"`
	DurationDays        int            `db:"duration_days"`
	FeatureEntitlements map[string]any `db:"feature_entitlements"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type UserSubscription struct {
	ID                  string         `db:"id"`
	UserID              string         `db:"user_id"`
	SubsID              string         `db:"subs_id"`
	Status              string         `db:"status"`
	FeatureEntitlements map[string]any `db:"feature_entitlements"`
	ExpiredAt           *time.Time     `db:"expired_at"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}
