package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	svc := NewService("test-secret", "kitreport", time.Hour)

	raw, exp, err := svc.Issue("Acme Newsletter", "kit-access-token")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	// the access token must not appear in the (unencrypted) JWT text
	assert.NotContains(t, raw, "kit-access-token")

	sess, err := svc.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Acme Newsletter", sess.ClientName)
	assert.Equal(t, "kit-access-token", sess.AccessToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewService("secret-a", "kitreport", time.Hour).Issue("Acme", "tok")
	require.NoError(t, err)

	_, err = NewService("secret-b", "kitreport", time.Hour).Parse(raw)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := NewService("test-secret", "kitreport", -time.Minute)
	raw, _, err := svc.Issue("Acme", "tok")
	require.NoError(t, err)

	_, err = svc.Parse(raw)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", "kitreport", time.Hour)
	_, err := svc.Parse("not.a.jwt")
	require.Error(t, err)
}

func TestMiddlewareRedirectsWithoutCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService("test-secret", "kitreport", time.Hour)

	r := gin.New()
	r.GET("/", Middleware(svc), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/oauth/authorize", w.Header().Get("Location"))
}

func TestMiddlewarePassesValidSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService("test-secret", "kitreport", time.Hour)
	raw, _, err := svc.Issue("Acme", "tok")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", Middleware(svc), func(c *gin.Context) {
		sess := MustGet(c)
		require.NotNil(t, sess)
		c.String(http.StatusOK, sess.ClientName+"|"+sess.AccessToken)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Acme|"))
	assert.Contains(t, w.Body.String(), "tok")
}
