package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lachiem1/meterUp/internal/billing"
)

const defaultHistoryLimit = 20

// Lookup is one recorded bill lookup. No bill content is kept.
type Lookup struct {
	ID         string
	Identifier string
	Period     billing.Period
	Outcome    string
	LookedUpAt time.Time
}

type HistoryRepo struct {
	db    *sql.DB
	newID func() string
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db, newID: uuid.NewString}
}

// RecordLookup appends one lookup.
func (r *HistoryRepo) RecordLookup(
	ctx context.Context,
	identifier string,
	period billing.Period,
	outcome billing.Outcome,
	at time.Time,
) error {
	const q = `
INSERT INTO lookups (id, identifier, period, outcome, looked_up_at)
VALUES (?, ?, ?, ?, ?)
`
	if _, err := r.db.ExecContext(
		ctx,
		q,
		r.newID(),
		identifier,
		period.Key(),
		outcome.String(),
		at.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert lookup %q: %w", identifier, err)
	}
	return nil
}

// List returns the most recent lookups, newest first.
func (r *HistoryRepo) List(ctx context.Context, limit int) ([]Lookup, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, identifier, period, outcome, looked_up_at
		 FROM lookups
		 ORDER BY looked_up_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	out := make([]Lookup, 0, limit)
	for rows.Next() {
		var (
			l         Lookup
			periodKey string
			at        string
		)
		if err := rows.Scan(&l.ID, &l.Identifier, &periodKey, &l.Outcome, &at); err != nil {
			return nil, fmt.Errorf("scan lookup row: %w", err)
		}
		l.Period, err = billing.ParseKey(periodKey)
		if err != nil {
			return nil, fmt.Errorf("parse period for lookup %s: %w", l.ID, err)
		}
		l.LookedUpAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse looked_up_at for lookup %s: %w", l.ID, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read lookup rows: %w", err)
	}
	return out, nil
}

// Prune keeps the newest keep rows and deletes the rest.
func (r *HistoryRepo) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM lookups WHERE id NOT IN (
		   SELECT id FROM lookups ORDER BY looked_up_at DESC, rowid DESC LIMIT ?
		 )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune lookups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune lookups rows affected: %w", err)
	}
	return n, nil
}
