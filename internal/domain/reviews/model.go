package reviews

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type CVReview struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index:idx_cv_reviews_user_id" json:"userId"`

	FilePath     string `json:"-"`
	OriginalName string `json:"fileName"`

	Status   string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Feedback *string `json:"feedback,omitempty"`

	IsPromotional bool `gorm:"not null;default:false" json:"isPromotional"`
	IsPaid        bool `gorm:"not null;default:false" json:"isPaid"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
