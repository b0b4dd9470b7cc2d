package predictions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO predictions (id, description_hash, description, task_type, confidence, suggested_actions, strategy, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	actions, err := json.Marshal(nonNilActions(rec.SuggestedActions))
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	var metadata any
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = raw
	}
	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.DescriptionHash,
		rec.Description,
		rec.TaskType,
		rec.Confidence,
		actions,
		rec.Strategy,
		metadata,
		rec.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	const query = `
SELECT id, description_hash, description, task_type, confidence, suggested_actions, strategy, metadata, created_at
FROM predictions
WHERE id = $1
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	const query = `
SELECT id, description_hash, description, task_type, confidence, suggested_actions, strategy, metadata, created_at
FROM predictions
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var actions []byte
	var metadata []byte
	err := row.Scan(
		&rec.ID,
		&rec.DescriptionHash,
		&rec.Description,
		&rec.TaskType,
		&rec.Confidence,
		&actions,
		&rec.Strategy,
		&metadata,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &rec.SuggestedActions); err != nil {
			return Record{}, fmt.Errorf("decode actions: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return Record{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return rec, nil
}

func nonNilActions(actions []string) []string {
	if actions == nil {
		return []string{}
	}
	return actions
}
