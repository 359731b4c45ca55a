package main

import (
	"log"
	"os"
	"time"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/database"
	routes "github.com/princess2wilson/RESUMATE-sub000/internal/app/http"
	"github.com/princess2wilson/RESUMATE-sub000/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	sessions, err := session.New(database.DB)
	if err != nil {
		log.Fatal("❌ Failed to initialize session store:", err)
	}

	if err := os.MkdirAll(config.UPLOAD_DIR, 0o755); err != nil {
		log.Fatal("❌ Failed to create upload dir:", err)
	}

	r := gin.Default()

	// CORS must be registered before routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, sessions)

	r.Run(":" + config.PORT)
}
