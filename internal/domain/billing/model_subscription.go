package billing

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index:idx_subscriptions_user_id" json:"userId"`

	StripeCustomerID     string `gorm:"column:stripe_customer_id" json:"-"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_subscription_id" json:"-"`

	// Mirrors the provider status verbatim: active, trialing, past_due, canceled, ...
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `gorm:"column:current_period_end" json:"currentPeriodEnd"`
	PlanType         string    `gorm:"column:plan_type" json:"planType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasActive reports whether the user currently holds a usable subscription.
func HasActive(db *gorm.DB, userID uint) bool {
	var sub Subscription
	err := db.Where("user_id = ? AND status IN ?", userID, []string{"active", "trialing"}).
		Order("updated_at DESC").First(&sub).Error
	if err != nil {
		return false
	}
	return sub.CurrentPeriodEnd.IsZero() || time.Now().Before(sub.CurrentPeriodEnd)
}
