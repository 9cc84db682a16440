package models

// Report is a subscriber growth and attribution summary for one
// date window.
type Report struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TotalSubscribers int `json:"total_subscribers"`

	FacebookSubscribers  int     `json:"facebook_subscribers"`
	FacebookPercent      float64 `json:"facebook_percent"`
	CreatorSubscribers   int     `json:"creator_subscribers"`
	CreatorPercent       float64 `json:"creator_percent"`
	SparkloopSubscribers int     `json:"sparkloop_subscribers"`
	SparkloopPercent     float64 `json:"sparkloop_percent"`
	OrganicSubscribers   int     `json:"organic_subscribers"`
	OrganicPercent       float64 `json:"organic_percent"`

	PaidSubscribers   int     `json:"paid_subscribers"`
	PaidGrowthPercent float64 `json:"paid_growth_percent"`

	// Growth section, filled only when a client record with a valid
	// engagement start date exists.
	HasGrowth          bool    `json:"has_growth"`
	TotalGrowth        int     `json:"total_growth,omitempty"`
	GrowthRate         float64 `json:"growth_rate,omitempty"`
	ClientStartDate    string  `json:"client_start_date,omitempty"`
	DailyAverageBefore float64 `json:"daily_average_before,omitempty"`
	DailyAverageAfter  float64 `json:"daily_average_after,omitempty"`
	BeforePeriod       string  `json:"before_period,omitempty"`
	AfterPeriod        string  `json:"after_period,omitempty"`

	OpenRatesTaskID string `json:"open_rates_task_id,omitempty"`
}

// OpenRateStats aggregates broadcast delivery stats for a window.
type OpenRateStats struct {
	AverageOpenRate float64 `json:"average_open_rate"`
	TotalBroadcasts int     `json:"total_broadcasts"`
	TotalRecipients int     `json:"total_recipients"`
	TotalOpens      int     `json:"total_opens"`
}

// TagOpenRate is a per-tag open-rate entry. Kit does not expose
// per-tag rates, so each entry carries the overall rate as an
// estimate plus a note saying so.
type TagOpenRate struct {
	TagID           TagID   `json:"tag_id"`
	TagName         string  `json:"tag_name"`
	AverageOpenRate float64 `json:"average_open_rate"`
	TotalRecipients int     `json:"total_recipients"`
	TotalOpens      int     `json:"total_opens"`
	Note            string  `json:"note,omitempty"`
}

// OpenRateReport is the result payload of a background open-rate task.
type OpenRateReport struct {
	Overall   OpenRateStats `json:"overall"`
	ByTag     []TagOpenRate `json:"by_tag"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Note      string        `json:"note,omitempty"`
}
