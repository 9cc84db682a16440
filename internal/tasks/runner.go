package tasks

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kitreport/internal/report"
	"kitreport/pkg/models"
)

// taskTimeLimit caps a single background calculation.
const taskTimeLimit = 30 * time.Minute

// Event is what the hub broadcasts on every status transition.
type Event struct {
	Type   string    `json:"type"` // "task.status"
	TaskID string    `json:"task_id"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

type Runner struct {
	Store  *Store
	Hub    *Hub
	Logger *log.Logger
}

func NewRunner(store *Store, hub *Hub) *Runner {
	return &Runner{Store: store, Hub: hub, Logger: log.Default()}
}

// NewTaskID mints a task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// StartOpenRates records the task as pending and kicks off the
// calculation in a goroutine. The report service owns the caller's
// access token, so the goroutine is independent of the request.
func (r *Runner) StartOpenRates(taskID string, svc *report.Service, start, end string, tags []models.TagRef) {
	r.transition(taskID, models.TaskPending, nil, "")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeLimit)
		defer cancel()

		r.transition(taskID, models.TaskProcessing, nil, "")

		result, err := svc.OpenRatesForTags(ctx, start, end, tags)
		if err != nil {
			r.Logger.Printf("[tasks] %s failed: %v", taskID, err)
			r.transition(taskID, models.TaskFailed, nil, err.Error())
			return
		}

		r.transition(taskID, models.TaskCompleted, result, "")
	}()
}

func (r *Runner) transition(taskID, status string, data any, errText string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Store.Save(ctx, taskID, status, data, errText); err != nil {
		r.Logger.Printf("[tasks] save %s status %s: %v", taskID, status, err)
	}

	if r.Hub != nil {
		r.Hub.BroadcastJSON(Event{
			Type:   "task.status",
			TaskID: taskID,
			Status: status,
			Error:  errText,
			At:     time.Now().UTC(),
		})
	}
}
