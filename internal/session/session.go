package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"
)

const (
	CookieName = "cvreview_session"

	userIDKey = "userID"
)

// New builds the process-wide session manager on top of a database-backed
// store. Sessions survive redeploys; each entry expires after Lifetime.
func New(db *gorm.DB) (*scs.SessionManager, error) {
	store, err := NewGormStore(db)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = 7 * 24 * time.Hour
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	return sm, nil
}

// SignIn rotates the session token and records the authenticated user.
func SignIn(sm *scs.SessionManager, ctx context.Context, userID uint) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, userIDKey, int(userID))
	return nil
}

// SignOut destroys the session so its token no longer resolves to anyone.
func SignOut(sm *scs.SessionManager, ctx context.Context) error {
	return sm.Destroy(ctx)
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(sm *scs.SessionManager, ctx context.Context) uint {
	return uint(sm.GetInt(ctx, userIDKey))
}
