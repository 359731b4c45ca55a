package stripewebhooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"
	"github.com/princess2wilson/RESUMATE-sub000/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

const testWebhookSecret = "whsec_test_secret"

func newWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_dummy")
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)

	r := gin.New()
	r.POST("/api/webhooks", StripeWebhook)
	return r
}

// signPayload builds a Stripe-Signature header the way Stripe does:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliver(t *testing.T, r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func subscriptionUpdatedEvent(subID, status string, periodEnd int64) []byte {
	payload, _ := json.Marshal(map[string]any{
		"id":     "evt_test_1",
		"object": "event",
		"type":   "customer.subscription.updated",
		"data": map[string]any{
			"object": map[string]any{
				"id":                 subID,
				"object":             "subscription",
				"status":             status,
				"current_period_end": periodEnd,
			},
		},
	})
	return payload
}

func TestWebhookRejectsTamperedSignature(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newWebhookRouter(t)

	payload := subscriptionUpdatedEvent("sub_123", "past_due", time.Now().Add(720*time.Hour).Unix())

	w := deliver(t, r, payload, signPayload(payload, "whsec_wrong_secret"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&billing.Subscription{}).Count(&count)
	assert.Zero(t, count, "a forged delivery must not touch local state")
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	testutil.OpenDB(t)
	r := newWebhookRouter(t)

	payload := subscriptionUpdatedEvent("sub_123", "past_due", time.Now().Unix())
	w := deliver(t, r, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionUpdatedIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newWebhookRouter(t)

	require.NoError(t, db.Create(&billing.Subscription{
		UserID:               7,
		StripeCustomerID:     "cus_7",
		StripeSubscriptionID: "sub_123",
		Status:               "active",
		CurrentPeriodEnd:     time.Now(),
		PlanType:             "monthly",
	}).Error)

	periodEnd := time.Now().Add(720 * time.Hour).Truncate(time.Second)
	payload := subscriptionUpdatedEvent("sub_123", "past_due", periodEnd.Unix())

	w := deliver(t, r, payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after billing.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_123").First(&after).Error)
	assert.Equal(t, "past_due", after.Status)
	assert.WithinDuration(t, periodEnd, after.CurrentPeriodEnd, time.Second)

	// replaying the exact same event converges on the same state
	w = deliver(t, r, payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var replayed billing.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_123").First(&replayed).Error)
	assert.Equal(t, after.Status, replayed.Status)
	assert.WithinDuration(t, after.CurrentPeriodEnd, replayed.CurrentPeriodEnd, time.Second)

	var count int64
	db.Model(&billing.Subscription{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSubscriptionUpdatedUnknownRowIsNoOp(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newWebhookRouter(t)

	payload := subscriptionUpdatedEvent("sub_never_seen", "canceled", time.Now().Unix())
	w := deliver(t, r, payload, signPayload(payload, testWebhookSecret))

	// provider retries are pointless here, acknowledge with 200
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	db.Model(&billing.Subscription{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubscriptionDeletedMarksCanceled(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newWebhookRouter(t)

	require.NoError(t, db.Create(&billing.Subscription{
		UserID:               7,
		StripeSubscriptionID: "sub_123",
		Status:               "active",
		CurrentPeriodEnd:     time.Now().Add(720 * time.Hour),
		PlanType:             "monthly",
	}).Error)

	payload, _ := json.Marshal(map[string]any{
		"id":     "evt_test_2",
		"object": "event",
		"type":   "customer.subscription.deleted",
		"data": map[string]any{
			"object": map[string]any{
				"id":                 "sub_123",
				"object":             "subscription",
				"status":             "canceled",
				"current_period_end": time.Now().Unix(),
			},
		},
	})

	w := deliver(t, r, payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var after billing.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_123").First(&after).Error)
	assert.Equal(t, "canceled", after.Status)
}

func TestCheckoutCompletedCreatesSubscription(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newWebhookRouter(t)

	periodEnd := time.Now().Add(720 * time.Hour).Truncate(time.Second)

	// stand-in for the Stripe API: the reconciler fetches the subscription
	// referenced by the checkout session
	stripeAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/v1/subscriptions/sub_new" {
			fmt.Fprintf(w, `{
				"id": "sub_new",
				"object": "subscription",
				"status": "active",
				"current_period_end": %d,
				"metadata": {"user_id": "7", "plan_type": "monthly"}
			}`, periodEnd.Unix())
			return
		}
		http.NotFound(w, req)
	}))
	t.Cleanup(stripeAPI.Close)

	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL: stripe.String(stripeAPI.URL),
	}))
	t.Cleanup(func() {
		stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{}))
	})

	require.NoError(t, db.Create(&reviews.CVReview{
		UserID:       7,
		FilePath:     "uploads/cv.pdf",
		OriginalName: "cv.pdf",
		Status:       reviews.StatusPending,
	}).Error)

	payload, _ := json.Marshal(map[string]any{
		"id":     "evt_test_3",
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":                  "cs_1",
				"object":              "checkout.session",
				"client_reference_id": "7",
				"customer":            "cus_7",
				"subscription":        "sub_new",
			},
		},
	})

	w := deliver(t, r, payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub billing.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_new").First(&sub).Error)
	assert.EqualValues(t, 7, sub.UserID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "monthly", sub.PlanType)
	assert.Equal(t, "cus_7", sub.StripeCustomerID)
	assert.WithinDuration(t, periodEnd, sub.CurrentPeriodEnd, time.Second)

	var review reviews.CVReview
	require.NoError(t, db.First(&review).Error)
	assert.True(t, review.IsPaid)

	// redelivery upserts the same row
	w = deliver(t, r, payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&billing.Subscription{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
