package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kitreport/internal/kit"
	"kitreport/pkg/models"
)

// KitSource fetches the catalog straight from the Kit API, used when
// provisioning happens server-side during page render.
type KitSource struct {
	Client *kit.Client
}

func (s KitSource) FetchCatalog(ctx context.Context) (*models.TagCatalog, error) {
	return s.Client.AllTags(ctx)
}

// HTTPSource fetches the catalog from a running kitreport server's
// GET /get_tags endpoint, the way the CLI does.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client

	// SessionCookie is the value of the kitreport session cookie;
	// /get_tags requires a signed-in session.
	SessionCookie string
	CookieName    string
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (s *HTTPSource) FetchCatalog(ctx context.Context) (*models.TagCatalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/get_tags", nil)
	if err != nil {
		return nil, fmt.Errorf("get_tags: build request: %w", err)
	}
	if s.SessionCookie != "" {
		name := s.CookieName
		if name == "" {
			name = "kitreport_session"
		}
		req.AddCookie(&http.Cookie{Name: name, Value: s.SessionCookie})
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get_tags: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("get_tags: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get_tags: status %d: %s", resp.StatusCode, string(body))
	}

	var catalog models.TagCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("get_tags: decode: %w", err)
	}
	return &catalog, nil
}
