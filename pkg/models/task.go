package models

import (
	"encoding/json"
	"time"
)

const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// TaskStatus is one row of the background task table.
type TaskStatus struct {
	TaskID    string          `json:"task_id"`
	Status    string          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}
