// Package oauth signs the user in to Kit with the authorization-code
// flow and turns the resulting access token into a session cookie.
package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"kitreport/internal/kit"
	"kitreport/internal/session"
	"kitreport/pkg/utils"
)

const stateCookie = "kitreport_oauth_state"

type Handler struct {
	OAuth    *oauth2.Config
	Sessions session.Service

	// KitBaseURL is where the account lookup goes after the exchange.
	KitBaseURL string

	// newKit builds the API client for the account lookup.
	newKit func(token string) *kit.Client
}

func NewHandler(cfg utils.Config, sessions session.Service) *Handler {
	h := &Handler{
		OAuth: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"public"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		Sessions:   sessions,
		KitBaseURL: cfg.KitBaseURL,
	}
	h.newKit = func(token string) *kit.Client {
		return kit.NewClient(token, h.KitBaseURL)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/oauth/authorize", h.authorize)
	r.GET("/oauth/callback", h.callback)
	r.GET("/logout", h.logout)
}

func (h *Handler) authorize(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state generation failed"})
		return
	}

	// state lives in a short-lived cookie; the session itself is
	// stateless
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)

	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

func (h *Handler) callback(c *gin.Context) {
	want, err := c.Cookie(stateCookie)
	if err != nil || want == "" || c.Query("state") != want {
		log.Println("[oauth] state mismatch")
		c.Redirect(http.StatusFound, "/oauth/authorize")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		log.Println("[oauth] callback missing code")
		c.Redirect(http.StatusFound, "/oauth/authorize")
		return
	}

	token, err := h.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("[oauth] exchange failed: %v", err)
		c.Redirect(http.StatusFound, "/oauth/authorize")
		return
	}

	clientName, err := h.newKit(token.AccessToken).AccountName(c.Request.Context())
	if err != nil {
		log.Printf("[oauth] account lookup failed: %v", err)
		c.Redirect(http.StatusFound, "/oauth/authorize")
		return
	}

	signed, _, err := h.Sessions.Issue(clientName, token.AccessToken)
	if err != nil {
		log.Printf("[oauth] session issue failed: %v", err)
		c.Redirect(http.StatusFound, "/oauth/authorize")
		return
	}

	session.SetCookie(c, signed, int(h.Sessions.TTL.Seconds()))
	log.Printf("[oauth] signed in client %q", clientName)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	session.ClearCookie(c)
	c.Redirect(http.StatusFound, "/oauth/authorize")
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
