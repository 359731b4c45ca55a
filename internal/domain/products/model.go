package products

import (
	"log"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"not null;uniqueIndex:idx_products_slug" json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`

	PriceCents int64  `json:"priceCents"`
	Currency   string `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Interval   string `gorm:"type:varchar(10);not null;default:'month'" json:"interval"`
	PlanType   string `gorm:"column:plan_type" json:"planType"`

	// Provider-side ids, filled in lazily on first checkout (or admin sync)
	// and reused afterwards so we never create duplicate Stripe objects.
	StripeProductID *string `gorm:"column:stripe_product_id;uniqueIndex:idx_products_stripe_product_id" json:"-"`
	StripePriceID   *string `gorm:"column:stripe_price_id;uniqueIndex:idx_products_stripe_price_id" json:"-"`
}

func SeedDefaults(db *gorm.DB) {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	defaults := []Product{
		{
			Slug:        "monthly-review",
			Name:        "Monthly CV Review",
			Description: "One expert CV review per month plus written feedback.",
			PriceCents:  999,
			PlanType:    "monthly",
		},
		{
			Slug:        "pro-review",
			Name:        "Pro CV Review",
			Description: "Unlimited CV reviews and a 30-minute consultation each month.",
			PriceCents:  2499,
			PlanType:    "pro",
		},
	}
	if err := db.Create(&defaults).Error; err != nil {
		log.Println("Failed to seed products:", err)
	}
}
