package middleware

import (
	"net/http"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"
	"github.com/princess2wilson/RESUMATE-sub000/internal/session"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests whose session does not resolve to a user.
func RequireAuth(sessions *scs.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := session.UserID(sessions, c.Request.Context())
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// RequireAdmin allows only users with the admin flag. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user users.User
		if err := database.DB.First(&user, userID).Error; err != nil || !user.IsAdmin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}
