package database

import (
	"database/sql"
	"fmt"
)

// Schema is small enough to live here instead of a .sql file; tests
// open :memory: databases and migrate them the same way the server
// does.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
	name                TEXT PRIMARY KEY,
	start_date          TEXT NOT NULL DEFAULT '',
	initial_subscribers INTEGER NOT NULL DEFAULT 0,
	updated_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	data       TEXT,
	error      TEXT,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
