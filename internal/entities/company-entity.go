package entities

import (
	"slices"
	"time"
)

type SubscriptionPlan struct {
	Code     string        `json:"code" db:"plan_code"`
	Name     string        `json:"name" db:"plan_name"`
	Features []PlanFeature `json:"features" db:"plan_features"`
}

type Subscription struct {
	ActivatedAt *time.Time       `json:"activatedAt,omitempty" db:"activated_at"`
	EndsOn      *time.Time       `json:"endsOn,omitempty" db:"ends_on"`
	Plan        SubscriptionPlan `json:"plan"`
}

type Company struct {
	ID           uint64       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Subscription Subscription `json:"subscription"`
}

func (c *Company) HasFeature(f PlanFeature) bool {
	return c != nil && slices.Contains(c.Subscription.Plan.Features, f)
}
