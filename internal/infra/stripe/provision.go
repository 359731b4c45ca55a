package stripe

import (
	"fmt"

	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/products"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"github.com/stripe/stripe-go/v75/product"
	"gorm.io/gorm"
)

// EnsureProductProvisioned creates the Stripe product and price for a catalog
// item the first time it is needed and stores the returned ids on the row.
// Later calls see the stored ids and do nothing, so no duplicate provider
// objects ever get created.
func EnsureProductProvisioned(db *gorm.DB, p *products.Product) error {
	if p.StripePriceID != nil && *p.StripePriceID != "" {
		return nil
	}

	if p.StripeProductID == nil || *p.StripeProductID == "" {
		prod, err := product.New(&stripe.ProductParams{
			Name:        stripe.String(p.Name),
			Description: stripe.String(p.Description),
			Metadata: map[string]string{
				"slug": p.Slug,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create stripe product for %s: %w", p.Slug, err)
		}

		if err := db.Model(p).Update("stripe_product_id", prod.ID).Error; err != nil {
			return err
		}
		p.StripeProductID = stripe.String(prod.ID)
	}

	pr, err := price.New(&stripe.PriceParams{
		Product:    p.StripeProductID,
		UnitAmount: stripe.Int64(p.PriceCents),
		Currency:   stripe.String(p.Currency),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(p.Interval),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create stripe price for %s: %w", p.Slug, err)
	}

	if err := db.Model(p).Update("stripe_price_id", pr.ID).Error; err != nil {
		return err
	}
	p.StripePriceID = stripe.String(pr.ID)

	return nil
}
