package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// LoadAndSave loads the scs session for the request and commits it back to
// the store before the first byte of the response goes out. Equivalent of
// scs's own net/http middleware, adapted to gin's ResponseWriter.
func LoadAndSave(sessions *scs.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sessions.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sessions.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		c.Request = c.Request.WithContext(ctx)

		sw := &sessionWriter{ResponseWriter: c.Writer, sessions: sessions, c: c}
		c.Writer = sw

		c.Next()

		// Handler wrote nothing; flush the cookie now.
		sw.commit()
	}
}

// sessionWriter defers the session commit until the response starts, so the
// Set-Cookie header always makes it out ahead of the body.
type sessionWriter struct {
	gin.ResponseWriter
	sessions  *scs.SessionManager
	c         *gin.Context
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	ctx := w.c.Request.Context()
	switch w.sessions.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sessions.Commit(ctx)
		if err != nil {
			log.Println("Session commit failed:", err)
			return
		}
		w.sessions.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sessions.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}
