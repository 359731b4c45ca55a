package billing

import (
	"fmt"
	"net/http"
	"os"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/products"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"
	stripeinfra "github.com/princess2wilson/RESUMATE-sub000/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
)

func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		ProductID uint `json:"productId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid productId"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var product products.Product
	if err := database.DB.First(&product, body.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// provision product+price on Stripe once, reuse stored ids afterwards
	if err := stripeinfra.EnsureProductProvisioned(database.DB, &product); err != nil {
		fmt.Println("❌ Stripe provisioning error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider unavailable"})
		return
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider unavailable"})
			return
		}

		if err := database.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}

		user.StripeCustomerID = stripe.String(cus.ID)
	}

	appURL := config.APP_URL
	if appURL == "" {
		appURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(appURL + "/dashboard?checkout=success"),
		CancelURL:  stripe.String(appURL + "/dashboard?checkout=canceled"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   user.StripeCustomerID,

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: product.StripePriceID, Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":   fmt.Sprint(user.ID),
				"plan_type": product.PlanType,
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		fmt.Println("❌ Stripe checkout error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}
