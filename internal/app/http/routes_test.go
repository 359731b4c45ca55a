package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/reviews"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"
	"github.com/princess2wilson/RESUMATE-sub000/internal/session"
	"github.com/princess2wilson/RESUMATE-sub000/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)

	sessions, err := session.New(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		if store, ok := sessions.Store.(*session.GormStore); ok {
			store.StopCleanup()
		}
	})

	r := gin.New()
	RegisterRoutes(r, sessions)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterLoginScenario(t *testing.T) {
	r, _ := newTestServer(t)

	// register
	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"email":     "a@x.com",
		"password":  "longenough1",
		"firstName": "Ada",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "longenough1")
	assert.NotContains(t, w.Body.String(), "password")

	// duplicate email
	w = doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"email":     "a@x.com",
		"password":  "longenough1",
		"firstName": "Ada",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password and unknown email must be indistinguishable
	wrongPw := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"email":    "a@x.com",
		"password": "wrongwrong1",
	}, nil)
	unknown := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"email":    "nobody@x.com",
		"password": "longenough1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPw.Body.String(), unknown.Body.String())

	// correct login sets a session cookie
	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"email":    "a@x.com",
		"password": "longenough1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	// session resolves to the user
	w = doJSON(t, r, http.MethodGet, "/api/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestAnonymousRequestIsUnauthorized(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"email":     "b@x.com",
		"password":  "longenough1",
		"firstName": "Bea",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// old token must no longer resolve to anyone
	w = doJSON(t, r, http.MethodGet, "/api/user", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminGuard(t *testing.T) {
	r, db := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"email":     "c@x.com",
		"password":  "longenough1",
		"firstName": "Cam",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := sessionCookie(t, w)

	require.NoError(t, db.Create(&reviews.CVReview{
		UserID:       99,
		FilePath:     "uploads/secret.pdf",
		OriginalName: "secret.pdf",
		Status:       reviews.StatusPending,
	}).Error)

	// non-admin is rejected and the handler never runs
	w = doJSON(t, r, http.MethodGet, "/api/admin/cv-reviews", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret.pdf")

	// promote the user; the same session now passes the guard
	require.NoError(t, db.Model(&users.User{}).
		Where("email = ?", "c@x.com").Update("is_admin", true).Error)

	w = doJSON(t, r, http.MethodGet, "/api/admin/cv-reviews", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secret.pdf")
}
