package report

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitreport/internal/kit"
	"kitreport/pkg/models"
)

func tagID(s string) *models.TagID {
	id := models.TagID(s)
	return &id
}

// fakeKit serves just enough of the Kit API for the report paths.
func fakeKit(t *testing.T) *kit.Client {
	t.Helper()
	mux := http.NewServeMux()

	// window totals keyed by created_after date
	mux.HandleFunc("/subscribers", func(w http.ResponseWriter, r *http.Request) {
		totals := map[string]int{
			"2024-05-01T00:00:00Z": 200, // report window
			"2024-01-01T00:00:00Z": 120, // before period (60d)
			"2024-04-15T00:00:00Z": 240, // after period (60d)
		}
		total := totals[r.URL.Query().Get("created_after")]
		fmt.Fprintf(w, `{"subscribers":[],"pagination":{"total_count":%d}}`, total)
	})

	mux.HandleFunc("/tags/", func(w http.ResponseWriter, r *http.Request) {
		counts := map[string]int{"11": 40, "12": 25, "13": 10}
		parts := strings.Split(r.URL.Path, "/")
		n := counts[parts[2]]
		subs := make([]string, 0, n)
		for i := 0; i < n; i++ {
			subs = append(subs, fmt.Sprintf(`{"id":%d}`, i+1))
		}
		fmt.Fprintf(w, `{"subscribers":[%s],"pagination":{"has_next_page":false}}`, strings.Join(subs, ","))
	})

	mux.HandleFunc("/broadcasts", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"broadcasts":[
			{"id":1,"subject":"a","published_at":"2024-05-10T08:00:00Z"},
			{"id":2,"subject":"b","published_at":"2024-05-20T08:00:00Z"}
		],"pagination":{"has_next_page":false}}`)
	})

	mux.HandleFunc("/broadcasts/1/stats", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"broadcast":{"stats":{"recipients":1000,"opens":700,"unique_opens":500}}}`)
	})
	mux.HandleFunc("/broadcasts/2/stats", func(w http.ResponseWriter, r *http.Request) {
		// no unique_opens: falls back to opens
		fmt.Fprint(w, `{"broadcast":{"stats":{"recipients":1000,"opens":200}}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return kit.NewClient("t", srv.URL+"/")
}

func TestSubscriberReportAttribution(t *testing.T) {
	svc := NewService(fakeKit(t))

	rep, err := svc.SubscriberReport(context.Background(), Params{
		FacebookTag:  tagID("11"),
		CreatorTag:   tagID("12"),
		SparkloopTag: tagID("13"),
		StartDate:    "2024-05-01",
		EndDate:      "2024-05-31",
		CurrentTotal: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, rep.TotalSubscribers)
	assert.Equal(t, 40, rep.FacebookSubscribers)
	assert.Equal(t, 20.0, rep.FacebookPercent)
	assert.Equal(t, 25, rep.CreatorSubscribers)
	assert.Equal(t, 12.5, rep.CreatorPercent)
	assert.Equal(t, 10, rep.SparkloopSubscribers)
	assert.Equal(t, 5.0, rep.SparkloopPercent)
	assert.Equal(t, 125, rep.OrganicSubscribers)
	assert.Equal(t, 62.5, rep.OrganicPercent)
	assert.Equal(t, 50, rep.PaidSubscribers)
	assert.Equal(t, 25.0, rep.PaidGrowthPercent)
	assert.False(t, rep.HasGrowth)
}

func TestSubscriberReportUntrackedSourcesAreOrganic(t *testing.T) {
	svc := NewService(fakeKit(t))

	rep, err := svc.SubscriberReport(context.Background(), Params{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.FacebookSubscribers)
	assert.Equal(t, 200, rep.OrganicSubscribers)
	assert.Equal(t, 100.0, rep.OrganicPercent)
}

func TestSubscriberReportGrowthSection(t *testing.T) {
	svc := NewService(fakeKit(t))

	rep, err := svc.SubscriberReport(context.Background(), Params{
		StartDate:    "2024-05-01",
		EndDate:      "2024-05-31",
		CurrentTotal: 5000,
		Client: &models.ClientRecord{
			Name:               "Acme",
			StartDate:          "2024-03-01",
			InitialSubscribers: 4000,
		},
	})
	require.NoError(t, err)

	require.True(t, rep.HasGrowth)
	assert.Equal(t, 1000, rep.TotalGrowth)
	assert.Equal(t, 25.0, rep.GrowthRate)
	assert.Equal(t, 2.0, rep.DailyAverageBefore) // 120 / 60
	assert.Equal(t, 4.0, rep.DailyAverageAfter)  // 240 / 60
	assert.Equal(t, "2024-01-01 to 2024-03-01", rep.BeforePeriod)
	assert.Equal(t, "2024-04-15 to 2024-06-14", rep.AfterPeriod)
}

func TestSubscriberReportSkipsInvalidClientRecord(t *testing.T) {
	svc := NewService(fakeKit(t))

	rep, err := svc.SubscriberReport(context.Background(), Params{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
		Client:    &models.ClientRecord{Name: "Acme", StartDate: "bogus"},
	})
	require.NoError(t, err)
	assert.False(t, rep.HasGrowth)
}

func TestOverallOpenRate(t *testing.T) {
	svc := NewService(fakeKit(t))

	stats, err := svc.OverallOpenRate(context.Background(), "2024-05-01", "2024-05-31")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalBroadcasts)
	assert.Equal(t, 2000, stats.TotalRecipients)
	assert.Equal(t, 700, stats.TotalOpens) // 500 unique + 200 fallback
	assert.Equal(t, 35.0, stats.AverageOpenRate)
}

func TestOpenRatesForTags(t *testing.T) {
	svc := NewService(fakeKit(t))

	rep, err := svc.OpenRatesForTags(context.Background(), "2024-05-01", "2024-05-31", []models.TagRef{
		{ID: "11", Name: "Facebook Ads"},
		{ID: "", Name: "skipped"},
		{ID: "13", Name: "SparkLoop"},
	})
	require.NoError(t, err)

	assert.Equal(t, 35.0, rep.Overall.AverageOpenRate)
	require.Len(t, rep.ByTag, 2)
	assert.Equal(t, "Facebook Ads", rep.ByTag[0].TagName)
	assert.Equal(t, 35.0, rep.ByTag[0].AverageOpenRate)
	assert.NotEmpty(t, rep.ByTag[0].Note)
}
