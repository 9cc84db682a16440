// Package tasks runs slow report calculations in the background,
// persisting status transitions in sqlite and pushing them to
// websocket listeners.
package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"kitreport/pkg/models"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Save upserts the task row. data may be nil; it is stored as JSON.
func (s *Store) Save(ctx context.Context, taskID, status string, data any, errText string) error {
	var payload sql.NullString
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal task data: %w", err)
		}
		payload = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, status, data, error, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			data = excluded.data,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, taskID, status, payload, errText, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save task %s: %w", taskID, err)
	}
	return nil
}

// Get returns the task status, or nil when the id is unknown.
func (s *Store) Get(ctx context.Context, taskID string) (*models.TaskStatus, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, status, data, error, updated_at
		FROM tasks
		WHERE id = ?
	`, taskID)

	var (
		ts      models.TaskStatus
		data    sql.NullString
		errText sql.NullString
	)
	if err := row.Scan(&ts.TaskID, &ts.Status, &data, &errText, &ts.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}

	if data.Valid && data.String != "" {
		ts.Data = json.RawMessage(data.String)
	}
	ts.Error = errText.String
	return &ts, nil
}
