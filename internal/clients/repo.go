// Package clients stores per-client report settings.
package clients

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kitreport/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert inserts or updates the client's settings.
func (r *Repo) Upsert(ctx context.Context, rec models.ClientRecord) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO clients (name, start_date, initial_subscribers, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			start_date = excluded.start_date,
			initial_subscribers = excluded.initial_subscribers,
			updated_at = CURRENT_TIMESTAMP
	`, rec.Name, rec.StartDate, rec.InitialSubscribers)
	if err != nil {
		return fmt.Errorf("upsert client %s: %w", rec.Name, err)
	}
	return nil
}

// Get returns the client record, or nil when the client has never
// saved settings.
func (r *Repo) Get(ctx context.Context, name string) (*models.ClientRecord, error) {
	name = strings.TrimSpace(name)
	row := r.DB.QueryRowContext(ctx, `
		SELECT name, start_date, initial_subscribers, updated_at
		FROM clients
		WHERE name = ?
	`, name)

	var rec models.ClientRecord
	if err := row.Scan(&rec.Name, &rec.StartDate, &rec.InitialSubscribers, &rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get client %s: %w", name, err)
	}
	return &rec, nil
}
