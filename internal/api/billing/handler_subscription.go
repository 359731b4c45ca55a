package billing

import (
	"errors"
	"net/http"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetSubscription returns the caller's current subscription, or null when
// they never completed a checkout.
func GetSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var sub billing.Subscription
	err := database.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
