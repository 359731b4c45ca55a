package stripewebhooks

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// errBadPayload marks an event body we could not interpret. The provider
// gets a 400 and will not be helped by retrying.
var errBadPayload = errors.New("unparseable event payload")

type eventHandler func(event stripe.Event) error

// Registered event kinds. Adding support for a new event is one entry here
// plus its handler; everything else acknowledges with 200 so Stripe stops
// retrying.
var eventHandlers = map[string]eventHandler{
	"checkout.session.completed":    handleCheckoutSessionCompleted,
	"customer.subscription.updated": handleSubscriptionUpdated,
	"customer.subscription.deleted": handleSubscriptionDeleted,
}

func StripeWebhook(c *gin.Context) {
	// Stripe key is required for follow-up API calls (subscription.Get)
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	handle, ok := eventHandlers[string(event.Type)]
	if !ok {
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"received": true, "status": "ignored"})
		return
	}

	if err := handle(event); err != nil {
		if errors.Is(err, errBadPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event"})
			return
		}
		// 500 so Stripe redelivers; the handlers are idempotent.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
