package products

import (
	"net/http"
	"os"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/products"
	stripeinfra "github.com/princess2wilson/RESUMATE-sub000/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// GET /api/products
func ListProducts(c *gin.Context) {
	var list []products.Product
	if err := database.DB.Order("price_cents ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/sync-products
// Provisions every catalog item on Stripe up front instead of waiting for the
// first checkout. Re-running is safe; items that already carry provider ids
// are skipped.
func SyncProducts(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	var list []products.Product
	if err := database.DB.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	synced := 0
	for i := range list {
		if list[i].StripePriceID != nil && *list[i].StripePriceID != "" {
			continue
		}
		if err := stripeinfra.EnsureProductProvisioned(database.DB, &list[i]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider unavailable"})
			return
		}
		synced++
	}

	c.JSON(http.StatusOK, gin.H{"synced": synced, "total": len(list)})
}
