// This file defines repository methods for bosses. The boss table for a
// season is maintained as a whole: saving boss settings replaces all 20 rows
// (5 attributes x 4 levels) in one transaction, keyed conceptually on
// (season_id, attribute, level).
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// BossRepo encapsulates all database queries related to bosses.
type BossRepo struct {
	db *sql.DB
}

// NewBossRepo constructs a BossRepo with the provided DB handle.
func NewBossRepo(db *sql.DB) *BossRepo { return &BossRepo{db: db} }

// ListBySeason returns the bosses of a season ordered by level, then by the
// client-assigned display order, then id as a tie break.
func (r *BossRepo) ListBySeason(ctx context.Context, seasonID int64) ([]model.Boss, error) {
	const q = `SELECT id, season_id, name, attribute, level, hp, mechanic, sort_order, created_at, updated_at
	           FROM bosses WHERE season_id = $1
	           ORDER BY level ASC, sort_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBosses(rows)
}

// BulkReplace swaps the complete boss set of a season: the previous rows are
// deleted and the new ones inserted in one transaction, so concurrent saves
// serialize on the row locks and a reader never sees a partial grid. The
// handler validates the 20-row shape before calling; the repository only
// guarantees atomicity. The freshly inserted rows are returned with their
// server-assigned ids and timestamps.
func (r *BossRepo) BulkReplace(ctx context.Context, seasonID, unionID int64, bosses []model.Boss) ([]model.Boss, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := checkSeasonOwner(ctx, tx, seasonID, unionID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bosses WHERE season_id = $1`, seasonID); err != nil {
		return nil, err
	}

	// Multi-value insert keeps the replace to two statements regardless of
	// the grid size.
	query := `INSERT INTO bosses (season_id, name, attribute, level, hp, mechanic, sort_order) VALUES `
	args := make([]any, 0, len(bosses)*7)
	for i, b := range bosses {
		if i > 0 {
			query += ","
		}
		base := i * 7
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, seasonID, b.Name, b.Attribute, b.Level, b.HP, b.Mechanic, b.SortOrder)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	const qSelect = `SELECT id, season_id, name, attribute, level, hp, mechanic, sort_order, created_at, updated_at
	                 FROM bosses WHERE season_id = $1
	                 ORDER BY level ASC, sort_order ASC, id ASC`
	rows, err := tx.QueryContext(ctx, qSelect, seasonID)
	if err != nil {
		return nil, err
	}
	inserted, err := scanBosses(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// UpdateHPMechanic patches the two admin-editable fields of a single boss and
// returns the updated row. Ownership is re-resolved through the boss's season
// before the write.
func (r *BossRepo) UpdateHPMechanic(ctx context.Context, id, unionID, hp int64, mechanic string) (*model.Boss, error) {
	if err := checkRowOwner(ctx, r.db, "bosses", id, unionID); err != nil {
		return nil, err
	}
	const q = `UPDATE bosses SET hp = $2, mechanic = $3, updated_at = NOW() WHERE id = $1
	           RETURNING id, season_id, name, attribute, level, hp, mechanic, sort_order, created_at, updated_at`
	var b model.Boss
	if err := r.db.QueryRowContext(ctx, q, id, hp, mechanic).
		Scan(&b.ID, &b.SeasonID, &b.Name, &b.Attribute, &b.Level, &b.HP, &b.Mechanic, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBosses(rows *sql.Rows) ([]model.Boss, error) {
	bosses := []model.Boss{}
	for rows.Next() {
		var b model.Boss
		if err := rows.Scan(&b.ID, &b.SeasonID, &b.Name, &b.Attribute, &b.Level, &b.HP, &b.Mechanic, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bosses = append(bosses, b)
	}
	return bosses, rows.Err()
}
