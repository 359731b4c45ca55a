package routes

import (
	adminapi "github.com/princess2wilson/RESUMATE-sub000/internal/api/admin"
	authapi "github.com/princess2wilson/RESUMATE-sub000/internal/api/auth"
	"github.com/princess2wilson/RESUMATE-sub000/internal/api/billing"
	productsapi "github.com/princess2wilson/RESUMATE-sub000/internal/api/products"
	reviewsapi "github.com/princess2wilson/RESUMATE-sub000/internal/api/reviews"
	stripewebhooks "github.com/princess2wilson/RESUMATE-sub000/internal/api/stripewebhook"
	"github.com/princess2wilson/RESUMATE-sub000/internal/api/users"
	"github.com/princess2wilson/RESUMATE-sub000/internal/app/http/middleware"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, sessions *scs.SessionManager) {
	authHandlers := authapi.New(sessions)

	// Webhook deliveries carry no session and need the raw body, keep the
	// route outside every middleware group.
	r.POST("/api/webhooks", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.LoadAndSave(sessions))

	// Public
	public := api.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/register", authHandlers.Register)
	public.POST("/login", authHandlers.Login)
	public.POST("/logout", authHandlers.Logout)
	public.GET("/products", productsapi.ListProducts)

	public.GET("/auth/google", authHandlers.GoogleStart)
	public.GET("/auth/google/callback", authHandlers.GoogleCallback)
	public.GET("/auth/github", authHandlers.GithubStart)
	public.GET("/auth/github/callback", authHandlers.GithubCallback)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.RequireAuth(sessions))
	auth.GET("/user", users.GetCurrentUser)
	auth.GET("/subscription", billing.GetSubscription)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)

	auth.POST("/cv-reviews", reviewsapi.UploadCV)
	auth.GET("/cv-reviews", reviewsapi.ListMyReviews)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(sessions), middleware.RequireAdmin())
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.GET("/stats", adminapi.GetStats)
	admin.GET("/cv-reviews", reviewsapi.AdminListReviews)
	admin.POST("/cv-reviews/:id/feedback", reviewsapi.SubmitFeedback)
	admin.POST("/sync-products", productsapi.SyncProducts)
}
