package models

// Subscriber is the subset of Kit subscriber fields the reports need.
type Subscriber struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	EmailAddress string `json:"email_address"`
	State        string `json:"state"`
	CreatedAt    string `json:"created_at"`
}

// Broadcast is a sent email campaign.
type Broadcast struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	PublishedAt string `json:"published_at"`
}

// BroadcastStats holds per-broadcast delivery stats. UniqueOpens is a
// pointer because older stats payloads omit it and only carry Opens.
type BroadcastStats struct {
	Recipients  int  `json:"recipients"`
	Opens       int  `json:"opens"`
	UniqueOpens *int `json:"unique_opens"`
	Clicks      int  `json:"clicks"`
}
