package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kitreport/pkg/dates"
	"kitreport/pkg/models"
)

const (
	perPage    = 1000
	maxRetries = 3
	retryDelay = time.Second
)

// Client talks to the Kit v4 API with a bearer token. Requests that
// hit the rate limit are retried with a linearly growing delay.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.kit.com/v4/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.BaseURL + strings.TrimPrefix(path, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var resp *http.Response
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("kit: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)

		resp, err = c.HTTP.Do(req)
		if err != nil {
			return fmt.Errorf("kit: request %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt == maxRetries-1 {
				return fmt.Errorf("kit: %s rate limited after %d attempts", path, maxRetries)
			}
			select {
			case <-time.After(retryDelay * time.Duration(attempt+1)):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		break
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("kit: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kit: %s status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("kit: decode %s: %w", path, err)
	}
	return nil
}

type pagination struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
	TotalCount  int    `json:"total_count"`
}

type subscribersPage struct {
	Subscribers []models.Subscriber `json:"subscribers"`
	Pagination  pagination          `json:"pagination"`
}

func windowParams(start, end string) url.Values {
	q := url.Values{}
	q.Set("created_after", start+"T00:00:00Z")
	q.Set("created_before", end+"T23:59:59Z")
	return q
}

// SubscriberCount returns how many subscribers were created in the
// window without paging through them.
func (c *Client) SubscriberCount(ctx context.Context, start, end string) (int, error) {
	q := windowParams(start, end)
	q.Set("include_total_count", "true")
	q.Set("per_page", "1")

	var page subscribersPage
	if err := c.get(ctx, "subscribers", q, &page); err != nil {
		return 0, err
	}
	return page.Pagination.TotalCount, nil
}

// Subscribers lists every subscriber created in the window using
// cursor pagination.
func (c *Client) Subscribers(ctx context.Context, start, end string) ([]models.Subscriber, error) {
	q := windowParams(start, end)
	q.Set("include_total_count", "true")
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	q.Set("sort_order", "desc")
	return c.pageSubscribers(ctx, "subscribers", q)
}

// TaggedSubscribers lists subscribers carrying the given tag created
// in the window. A missing tag id yields an empty list.
func (c *Client) TaggedSubscribers(ctx context.Context, tagID models.TagID, start, end string) ([]models.Subscriber, error) {
	if tagID == "" {
		return nil, nil
	}
	q := windowParams(start, end)
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	q.Set("sort_order", "desc")
	return c.pageSubscribers(ctx, fmt.Sprintf("tags/%s/subscribers", tagID), q)
}

func (c *Client) pageSubscribers(ctx context.Context, path string, q url.Values) ([]models.Subscriber, error) {
	var all []models.Subscriber
	for {
		var page subscribersPage
		if err := c.get(ctx, path, q, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Subscribers...)
		if !page.Pagination.HasNextPage {
			return all, nil
		}
		q.Set("after", page.Pagination.EndCursor)
	}
}

// TotalSubscribers is the current size of the whole list.
func (c *Client) TotalSubscribers(ctx context.Context) (int, error) {
	q := url.Values{}
	q.Set("include_total_count", "true")
	q.Set("per_page", "1")

	var page subscribersPage
	if err := c.get(ctx, "subscribers", q, &page); err != nil {
		return 0, err
	}
	return page.Pagination.TotalCount, nil
}

// SubscriberCountAt is the list size as of the end of the given date.
func (c *Client) SubscriberCountAt(ctx context.Context, date string) (int, error) {
	q := url.Values{}
	q.Set("created_before", date+"T23:59:59Z")
	q.Set("include_total_count", "true")
	q.Set("per_page", "1")

	var page subscribersPage
	if err := c.get(ctx, "subscribers", q, &page); err != nil {
		return 0, err
	}
	return page.Pagination.TotalCount, nil
}

type broadcastsPage struct {
	Broadcasts []models.Broadcast `json:"broadcasts"`
	Pagination pagination         `json:"pagination"`
}

// Broadcasts returns broadcasts published inside the window. The API
// has no date filter for broadcasts, so pages are filtered locally.
func (c *Client) Broadcasts(ctx context.Context, start, end string) ([]models.Broadcast, error) {
	startT, err := dates.Parse(start)
	if err != nil {
		return nil, err
	}
	endT, err := dates.Parse(end)
	if err != nil {
		return nil, err
	}
	endT = endT.AddDate(0, 0, 1) // inclusive end date

	q := url.Values{}
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	q.Set("sort_order", "desc")

	var out []models.Broadcast
	for {
		var page broadcastsPage
		if err := c.get(ctx, "broadcasts", q, &page); err != nil {
			return nil, err
		}
		for _, b := range page.Broadcasts {
			if b.PublishedAt == "" {
				continue
			}
			at, err := time.Parse(time.RFC3339, b.PublishedAt)
			if err != nil {
				continue
			}
			if !at.Before(startT) && at.Before(endT) {
				out = append(out, b)
			}
		}
		if !page.Pagination.HasNextPage {
			return out, nil
		}
		q.Set("after", page.Pagination.EndCursor)
	}
}

type broadcastStatsResponse struct {
	Broadcast struct {
		Stats models.BroadcastStats `json:"stats"`
	} `json:"broadcast"`
}

func (c *Client) BroadcastStats(ctx context.Context, id int64) (*models.BroadcastStats, error) {
	var resp broadcastStatsResponse
	if err := c.get(ctx, fmt.Sprintf("broadcasts/%d/stats", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Broadcast.Stats, nil
}

type accountResponse struct {
	Account struct {
		Name string `json:"name"`
	} `json:"account"`
}

// AccountName resolves the name of the account the token belongs to.
func (c *Client) AccountName(ctx context.Context) (string, error) {
	var resp accountResponse
	if err := c.get(ctx, "account", nil, &resp); err != nil {
		return "", err
	}
	if resp.Account.Name == "" {
		return "", fmt.Errorf("kit: account response missing name")
	}
	return resp.Account.Name, nil
}
