package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "kitreport_flash"

// flash survives one redirect in a cookie; the session itself is a
// stateless JWT so there is nowhere server-side to park it.
type flash struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func setFlash(c *gin.Context, message, severity string) {
	b, err := json.Marshal(flash{Message: message, Severity: severity})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

func popFlash(c *gin.Context) *flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f flash
	if json.Unmarshal(b, &f) != nil {
		return nil
	}
	return &f
}
