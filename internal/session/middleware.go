package session

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const CtxSessionKey = "session"

// Middleware requires a valid session cookie and redirects
// unauthenticated requests into the OAuth flow.
func Middleware(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil || raw == "" {
			log.Println("[session] no session cookie, redirecting to login")
			c.Redirect(http.StatusFound, "/oauth/authorize")
			c.Abort()
			return
		}

		sess, err := svc.Parse(raw)
		if err != nil {
			log.Printf("[session] invalid cookie: %v", err)
			c.Redirect(http.StatusFound, "/oauth/authorize")
			c.Abort()
			return
		}

		c.Set(CtxSessionKey, sess)
		c.Next()
	}
}

func MustGet(c *gin.Context) *Session {
	v, ok := c.Get(CtxSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}

// SetCookie attaches the signed session to the response.
func SetCookie(c *gin.Context, token string, ttlSeconds int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, ttlSeconds, "/", "", false, true)
}

// ClearCookie logs the browser out.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
