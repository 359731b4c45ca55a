package reviews

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/database"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/billing"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxCVSize = 5 << 20 // 5 MiB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// POST /api/cv-reviews
func UploadCV(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := c.FormFile("cv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cv file is required"})
		return
	}
	if file.Size > maxCVSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 5MB)"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, DOC and DOCX files are accepted"})
		return
	}

	subscribed := billing.HasActive(database.DB, userID)
	if !subscribed {
		// One free promotional review per account; after that, subscribe.
		var used int64
		database.DB.Model(&reviews.CVReview{}).Where("user_id = ?", userID).Count(&used)
		if used > 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Free review already used. Subscribe for unlimited reviews."})
			return
		}
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(config.UPLOAD_DIR, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		fmt.Println("❌ Failed to store upload:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	review := reviews.CVReview{
		UserID:        userID,
		FilePath:      dst,
		OriginalName:  file.Filename,
		Status:        reviews.StatusPending,
		IsPromotional: !subscribed,
		IsPaid:        subscribed,
	}

	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GET /api/cv-reviews
func ListMyReviews(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []reviews.CVReview
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/admin/cv-reviews
func AdminListReviews(c *gin.Context) {
	var list []reviews.CVReview
	// 'pending' sorts after 'completed', so DESC puts open work first
	if err := database.DB.Order("status DESC, created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// POST /api/admin/cv-reviews/:id/feedback
func SubmitFeedback(c *gin.Context) {
	var body struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback is required"})
		return
	}

	var review reviews.CVReview
	if err := database.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	// pending -> completed transitions exactly once
	if review.Status == reviews.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Review already completed"})
		return
	}

	if err := database.DB.Model(&review).Updates(map[string]interface{}{
		"feedback": body.Feedback,
		"status":   reviews.StatusCompleted,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	notifyReviewCompleted(review.UserID)

	review.Status = reviews.StatusCompleted
	review.Feedback = &body.Feedback
	c.JSON(http.StatusOK, review)
}
