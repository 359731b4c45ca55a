package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	appauth "github.com/princess2wilson/RESUMATE-sub000/internal/auth"
	"github.com/princess2wilson/RESUMATE-sub000/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /api/auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	h.startOAuth(c, appauth.GoogleOAuthConfig())
}

// GET /api/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	h.finishOAuth(c, h.google)
}

// GET /api/auth/github
func (h *Handler) GithubStart(c *gin.Context) {
	h.startOAuth(c, appauth.GithubOAuthConfig())
}

// GET /api/auth/github/callback
func (h *Handler) GithubCallback(c *gin.Context) {
	h.finishOAuth(c, h.github)
}

func (h *Handler) startOAuth(c *gin.Context, conf *oauth2.Config) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// state lives in an HttpOnly cookie until the provider calls back
	c.SetCookie(
		"oauth_state",
		state,
		300, // 5 minutes
		"/",
		"",    // domain (set in prod)
		false, // secure (true in prod HTTPS)
		true,  // httpOnly
	)

	c.Redirect(http.StatusFound, conf.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (h *Handler) finishOAuth(c *gin.Context, strategy appauth.Strategy) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.Redirect(http.StatusFound, config.APP_URL+"/auth")
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.Redirect(http.StatusFound, config.APP_URL+"/auth")
		return
	}

	user, err := strategy.Attempt(c.Request.Context(), appauth.Credentials{Code: code})
	if err != nil {
		if errors.Is(err, appauth.ErrProviderUnavailable) {
			log.Printf("❌ %s login failed: %v", strategy.Name(), err)
		}
		c.Redirect(http.StatusFound, config.APP_URL+"/auth")
		return
	}

	if err := session.SignIn(h.sessions, c.Request.Context(), user.ID); err != nil {
		c.Redirect(http.StatusFound, config.APP_URL+"/auth")
		return
	}

	c.Redirect(http.StatusFound, config.APP_URL+"/dashboard")
}
