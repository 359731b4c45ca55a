package users

import (
	"time"
)

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password  *string `gorm:"" json:"-"`
	FirstName string  `json:"firstName"`
	Username  *string `gorm:"uniqueIndex:idx_users_username" json:"username,omitempty"`

	IsAdmin bool `gorm:"not null;default:false" json:"isAdmin"`

	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"authProvider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	GithubID     *string `gorm:"uniqueIndex:idx_users_github_id" json:"-"`

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
