package models

import "time"

// ClientRecord holds per-client settings the growth report needs:
// when the engagement started and how many subscribers the list had
// at that point.
type ClientRecord struct {
	Name               string    `json:"name"`
	StartDate          string    `json:"start_date"` // YYYY-MM-DD
	InitialSubscribers int       `json:"initial_subscribers"`
	UpdatedAt          time.Time `json:"updated_at"`
}
