package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"
	stripeinfra "github.com/princess2wilson/RESUMATE-sub000/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
	"gorm.io/gorm/clause"
)

func handleCheckoutSessionCompleted(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}

	if sess.Subscription == nil || sess.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}

	// Pull the authoritative subscription state from Stripe rather than
	// trusting whatever snapshot rode along in the event.
	subData, err := subscription.Get(sess.Subscription.ID, nil)
	if err != nil || subData == nil {
		return fmt.Errorf("failed to fetch subscription: %w", err)
	}

	userID, err := userIDFromSubscriptionOrRef(subData, sess.ClientReferenceID)
	if err != nil {
		return err
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	sub := billing.Subscription{
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subData.ID,
		Status:               stripeinfra.NormalizeStatus(string(subData.Status)),
		CurrentPeriodEnd:     time.Unix(subData.CurrentPeriodEnd, 0),
		PlanType:             subData.Metadata["plan_type"],
	}

	// Upsert keyed on the provider subscription id; a redelivered event
	// overwrites the row with the same values.
	if err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "stripe_customer_id", "status", "current_period_end", "plan_type", "updated_at",
		}),
	}).Create(&sub).Error; err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}

	// Outstanding reviews are covered from this point on.
	if err := database.DB.Model(&reviews.CVReview{}).
		Where("user_id = ? AND is_paid = ?", userID, false).
		Update("is_paid", true).Error; err != nil {
		return fmt.Errorf("failed to mark reviews paid: %w", err)
	}

	return nil
}

func userIDFromSubscriptionOrRef(sub *stripe.Subscription, clientRef string) (uint, error) {
	userIDStr := ""
	if sub.Metadata != nil {
		userIDStr = sub.Metadata["user_id"]
	}
	if userIDStr == "" {
		userIDStr = clientRef
	}
	if userIDStr == "" {
		return 0, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", userIDStr, err)
	}
	return uint(uid64), nil
}
