// Package recordsource keeps health records as JSONB documents in PostgreSQL.
package recordsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

const (
	schemaQuery = `CREATE TABLE IF NOT EXISTS health_records (
		id INTEGER PRIMARY KEY,
		document JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	selectQuery = `SELECT document FROM health_records WHERE id = $1`

	upsertQuery = `INSERT INTO health_records (id, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`
)

// Postgres is a record.Source backed by the health_records table.
type Postgres struct {
	db *sql.DB
}

var _ record.Source = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the health_records table when it is missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaQuery); err != nil {
		return fmt.Errorf("failed to create health_records table: %w", err)
	}
	return nil
}

// GetHealthRecord loads record id. A missing row wraps record.ErrNotFound.
func (p *Postgres) GetHealthRecord(ctx context.Context, id int) (record.HealthRecord, error) {
	var document []byte
	err := p.db.QueryRowContext(ctx, selectQuery, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return record.HealthRecord{}, fmt.Errorf("%w: health record %d", record.ErrNotFound, id)
	}
	if err != nil {
		return record.HealthRecord{}, fmt.Errorf("failed to query health record %d: %w", id, err)
	}

	var rec record.HealthRecord
	if err := json.Unmarshal(document, &rec); err != nil {
		return record.HealthRecord{}, fmt.Errorf("failed to decode health record %d: %w", id, err)
	}
	return rec, nil
}

// SaveHealthRecord inserts or replaces record id.
func (p *Postgres) SaveHealthRecord(ctx context.Context, id int, rec record.HealthRecord) error {
	document, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode health record %d: %w", id, err)
	}
	if _, err := p.db.ExecContext(ctx, upsertQuery, id, string(document)); err != nil {
		return fmt.Errorf("failed to save health record %d: %w", id, err)
	}
	log.Debug().Int("record_id", id).Int("bytes", len(document)).Msg("health record stored")
	return nil
}
