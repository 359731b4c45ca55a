package admin

import (
	"net/http"
	"time"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	Username     *string   `json:"username,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	AuthProvider string    `json:"authProvider"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AdminStats struct {
	TotalUsers          int `json:"total_users"`
	PendingReviews      int `json:"pending_reviews"`
	CompletedReviews    int `json:"completed_reviews"`
	ActiveSubscriptions int `json:"active_subscriptions"`
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard 👑",
	})
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var result []AdminUser
	for _, u := range all {
		result = append(result, AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			FirstName:    u.FirstName,
			Username:     u.Username,
			IsAdmin:      u.IsAdmin,
			AuthProvider: u.AuthProvider,
			CreatedAt:    u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

func GetStats(c *gin.Context) {
	var totalUsers, pending, completed, activeSubs int64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&reviews.CVReview{}).Where("status = ?", reviews.StatusPending).Count(&pending)
	database.DB.Model(&reviews.CVReview{}).Where("status = ?", reviews.StatusCompleted).Count(&completed)
	database.DB.Model(&billing.Subscription{}).Where("status IN ?", []string{"active", "trialing"}).Count(&activeSubs)

	c.JSON(http.StatusOK, AdminStats{
		TotalUsers:          int(totalUsers),
		PendingReviews:      int(pending),
		CompletedReviews:    int(completed),
		ActiveSubscriptions: int(activeSubs),
	})
}

func GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var userReviews []reviews.CVReview
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&userReviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	var sub billing.Subscription
	var subscription *billing.Subscription
	if err := database.DB.Where("user_id = ?", userID).Order("updated_at DESC").First(&sub).Error; err == nil {
		subscription = &sub
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"reviews":      userReviews,
		"subscription": subscription,
	})
}
