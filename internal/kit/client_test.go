package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitreport/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token", srv.URL+"/")
}

func TestSubscriberCount(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscribers", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get("created_after"))
		assert.Equal(t, "2024-02-01T23:59:59Z", r.URL.Query().Get("created_before"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))

		fmt.Fprint(w, `{"subscribers":[],"pagination":{"total_count":1234}}`)
	}))

	n, err := c.SubscriberCount(context.Background(), "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)
}

func TestSubscribersPagination(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("after") {
		case "":
			fmt.Fprint(w, `{"subscribers":[{"id":1},{"id":2}],"pagination":{"has_next_page":true,"end_cursor":"abc"}}`)
		case "abc":
			fmt.Fprint(w, `{"subscribers":[{"id":3}],"pagination":{"has_next_page":false}}`)
		default:
			t.Fatalf("unexpected cursor %q", r.URL.Query().Get("after"))
		}
	}))

	subs, err := c.Subscribers(context.Background(), "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, int64(3), subs[2].ID)
	assert.Equal(t, 2, calls)
}

func TestTaggedSubscribersEmptyID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty tag id")
	}))

	subs, err := c.TaggedSubscribers(context.Background(), "", "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestRateLimitRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"subscribers":[],"pagination":{"total_count":7}}`)
	}))

	n, err := c.TotalSubscribers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 2, calls)
}

func TestRateLimitExhaustsRetries(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.TotalSubscribers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestSubscriberCountAt(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscribers", r.URL.Path)
		assert.Equal(t, "2024-03-01T23:59:59Z", r.URL.Query().Get("created_before"))
		assert.Empty(t, r.URL.Query().Get("created_after"))

		fmt.Fprint(w, `{"subscribers":[],"pagination":{"total_count":4000}}`)
	}))

	n, err := c.SubscriberCountAt(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 4000, n)
}

func TestErrorStatusIncludesBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad token"}`)
	}))

	_, err := c.TotalSubscribers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "bad token")
}

func TestBroadcastsFilteredByWindow(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"broadcasts":[
			{"id":1,"subject":"inside","published_at":"2024-01-15T10:00:00Z"},
			{"id":2,"subject":"before","published_at":"2023-12-01T10:00:00Z"},
			{"id":3,"subject":"last day","published_at":"2024-02-01T23:00:00Z"},
			{"id":4,"subject":"undated","published_at":""}
		],"pagination":{"has_next_page":false}}`)
	}))

	bs, err := c.Broadcasts(context.Background(), "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, int64(1), bs[0].ID)
	assert.Equal(t, int64(3), bs[1].ID)
}

func TestBroadcastStats(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/broadcasts/42/stats", r.URL.Path)
		fmt.Fprint(w, `{"broadcast":{"stats":{"recipients":100,"opens":55,"unique_opens":40}}}`)
	}))

	stats, err := c.BroadcastStats(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.Recipients)
	require.NotNil(t, stats.UniqueOpens)
	assert.Equal(t, 40, *stats.UniqueOpens)
}

func TestAccountName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account", r.URL.Path)
		fmt.Fprint(w, `{"account":{"name":"Acme Newsletter"}}`)
	}))

	name, err := c.AccountName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Newsletter", name)
}

func TestTagIDDecodesIntAndString(t *testing.T) {
	var catalog models.TagCatalog
	payload := `{"all_tags":[{"id":12,"name":"A"},{"id":"x-9","name":"B"}],"suggested":{"facebook":12,"creator":null}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &catalog))

	assert.Equal(t, models.TagID("12"), catalog.AllTags[0].ID)
	assert.Equal(t, models.TagID("x-9"), catalog.AllTags[1].ID)
	require.NotNil(t, catalog.Suggested["facebook"])
	assert.Equal(t, "12", catalog.Suggested["facebook"].String())
	assert.Nil(t, catalog.Suggested["creator"])
}
