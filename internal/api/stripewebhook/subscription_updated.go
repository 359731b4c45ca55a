package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	stripeinfra "github.com/princess2wilson/RESUMATE-sub000/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionUpdated(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if sub.ID == "" {
		return fmt.Errorf("%w: subscription missing id", errBadPayload)
	}

	return applySubscriptionState(event.ID, sub.ID, string(sub.Status), sub.CurrentPeriodEnd)
}

func handleSubscriptionDeleted(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if sub.ID == "" {
		return fmt.Errorf("%w: subscription missing id", errBadPayload)
	}

	return applySubscriptionState(event.ID, sub.ID, "canceled", sub.CurrentPeriodEnd)
}

// applySubscriptionState overwrites the local row matching the provider
// subscription id. Overwrite, never increment: replays of the same event
// converge on the same state. An event for a subscription we never stored is
// acknowledged as a no-op so provider retries don't pile up.
func applySubscriptionState(eventID, stripeSubID, status string, periodEnd int64) error {
	var existing billing.Subscription
	err := database.DB.Where("stripe_subscription_id = ?", stripeSubID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("webhook %s: no local subscription for %s, ignoring", eventID, stripeSubID)
		return nil
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":             stripeinfra.NormalizeStatus(status),
		"current_period_end": time.Unix(periodEnd, 0),
	}

	return database.DB.Model(&billing.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubID).
		Updates(updates).Error
}
