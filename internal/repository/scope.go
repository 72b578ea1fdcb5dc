package repository

import (
	"context"
	"database/sql"
	"errors"
)

// querier is the subset of *sql.DB / *sql.Tx used by the scope helpers, so
// ownership checks can run inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkSeasonOwner verifies that the season exists and belongs to the given
// union. Every handler that mutates season-scoped rows must pass through this
// check (or an equivalent joined predicate) before writing, because the
// season id arrives from the client and cannot be trusted on its own.
func checkSeasonOwner(ctx context.Context, q querier, seasonID, unionID int64) error {
	var owner int64
	err := q.QueryRowContext(ctx, `SELECT union_id FROM seasons WHERE id = $1`, seasonID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != unionID {
		return ErrForbidden
	}
	return nil
}

// rowOwner resolves the owning union of a season-scoped row via a join
// through seasons. The table name comes from a fixed set of callers, never
// from user input.
func rowOwner(ctx context.Context, q querier, table string, id int64) (int64, error) {
	var owner int64
	err := q.QueryRowContext(ctx,
		`SELECT s.union_id FROM `+table+` t JOIN seasons s ON s.id = t.season_id WHERE t.id = $1`,
		id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return owner, nil
}

// checkRowOwner combines rowOwner with the union comparison.
func checkRowOwner(ctx context.Context, q querier, table string, id, unionID int64) error {
	owner, err := rowOwner(ctx, q, table, id)
	if err != nil {
		return err
	}
	if owner != unionID {
		return ErrForbidden
	}
	return nil
}
