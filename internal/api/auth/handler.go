package auth

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/princess2wilson/RESUMATE-sub000/database"
	appauth "github.com/princess2wilson/RESUMATE-sub000/internal/auth"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"
	"github.com/princess2wilson/RESUMATE-sub000/internal/session"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	sessions *scs.SessionManager
	local    *appauth.LocalStrategy
	google   *appauth.GoogleStrategy
	github   *appauth.GithubStrategy
}

func New(sessions *scs.SessionManager) *Handler {
	return &Handler{
		sessions: sessions,
		local:    &appauth.LocalStrategy{DB: database.DB},
		google:   &appauth.GoogleStrategy{DB: database.DB},
		github:   &appauth.GithubStrategy{DB: database.DB},
	}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func isEmailValid(email string) bool {
	pattern := `^[a-zA-Z0-9._%%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}
	if !isEmailValid(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	var existing int64
	database.DB.Model(&users.User{}).Where("email = ?", input.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := appauth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := users.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		Password:     &hashed,
		AuthProvider: "local",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	if err := session.SignIn(h.sessions, c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.local.Attempt(c.Request.Context(), appauth.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, appauth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if err := session.SignIn(h.sessions, c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := session.SignOut(h.sessions, c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
