package domain

import "time"

// Subscription plan types.
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// PlanCredits maps each plan to the credits granted on subscription start.
var PlanCredits = map[string]int{
	PlanFree:    50,
	PlanBasic:   500,
	PlanPremium: 2000,
}

// Subscription tracks a user's plan and its validity window.
type Subscription struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	PlanType      string     `json:"plan_type" db:"plan_type"`
	Status        string     `json:"status" db:"status"`
	StartsAt      time.Time  `json:"starts_at" db:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	PaymentMethod string     `json:"payment_method,omitempty" db:"payment_method"`
	AutoRenewal   bool       `json:"auto_renewal" db:"auto_renewal"`
}

// CreateSubscriptionRequest is the request body for starting a subscription.
type CreateSubscriptionRequest struct {
	UserID        string `json:"userId"`
	PlanType      string `json:"planType"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	AutoRenewal   bool   `json:"autoRenewal,omitempty"`
}

// ValidPlanType reports whether p is a known plan.
func ValidPlanType(p string) bool {
	_, ok := PlanCredits[p]
	return ok
}
