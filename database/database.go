package database

import (
	"fmt"
	"log"
	"os"

	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/products"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	if err := DB.AutoMigrate(
		&users.User{},
		&billing.Subscription{},
		&reviews.CVReview{},
		&products.Product{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	products.SeedDefaults(DB)

	fmt.Println("✅ Connected and migrated successfully")
}
