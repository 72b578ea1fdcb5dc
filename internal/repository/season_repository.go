// This file defines repository methods for seasons. A season is the scoping
// unit for all raid data; season queries always filter by the owning union
// and child-row queries join through this table.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// SeasonRepo encapsulates all database queries related to seasons.
type SeasonRepo struct {
	db *sql.DB
}

// NewSeasonRepo constructs a SeasonRepo with the provided DB handle.
func NewSeasonRepo(db *sql.DB) *SeasonRepo { return &SeasonRepo{db: db} }

// ListByUnion returns every season owned by the union, newest first, each
// annotated with its non-deleted member count. The count rides along in one
// grouped LEFT JOIN instead of a per-season query.
func (r *SeasonRepo) ListByUnion(ctx context.Context, unionID int64) ([]model.Season, error) {
	const q = `SELECT s.id, s.union_id, s.name, s.date, s.is_active, s.created_at, s.updated_at,
	                  COUNT(m.id) AS member_count
	           FROM seasons s
	           LEFT JOIN members m ON m.season_id = s.id AND m.deleted_at IS NULL
	           WHERE s.union_id = $1
	           GROUP BY s.id
	           ORDER BY s.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, unionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seasons := []model.Season{}
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.UnionID, &s.Name, &s.Date, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.MemberCount); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

// Create inserts a new season for the union, optionally copying the member
// roster of a previous season. The copy and the insert run in one
// transaction so a failed copy never leaves a half-seeded season. The source
// season must belong to the same union; a foreign season id fails the
// ownership check before anything is written.
func (r *SeasonRepo) Create(ctx context.Context, s *model.Season, copyFromSeason int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if copyFromSeason != 0 {
		if err := checkSeasonOwner(ctx, tx, copyFromSeason, s.UnionID); err != nil {
			return err
		}
	}

	const qInsert = `INSERT INTO seasons (union_id, name, date, is_active)
	                 VALUES ($1, $2, $3, FALSE)
	                 RETURNING id, is_active, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, qInsert, s.UnionID, s.Name, s.Date).
		Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}

	if copyFromSeason != 0 {
		const qCopy = `INSERT INTO members (season_id, name)
		               SELECT $1, name FROM members
		               WHERE season_id = $2 AND deleted_at IS NULL`
		if _, err := tx.ExecContext(ctx, qCopy, s.ID, copyFromSeason); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Activate marks exactly one season of the union as active. The conditional
// UPDATE flips every row of the union in a single statement, so a concurrent
// reader can never observe zero or two active seasons.
func (r *SeasonRepo) Activate(ctx context.Context, id, unionID int64) error {
	if err := checkSeasonOwner(ctx, r.db, id, unionID); err != nil {
		return err
	}
	const q = `UPDATE seasons SET is_active = (id = $1), updated_at = NOW() WHERE union_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, unionID)
	return err
}

// Deactivate clears the active flag on one season without touching others.
func (r *SeasonRepo) Deactivate(ctx context.Context, id, unionID int64) error {
	const q = `UPDATE seasons SET is_active = FALSE, updated_at = NOW()
	           WHERE id = $1 AND union_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, unionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return checkSeasonOwner(ctx, r.db, id, unionID)
	}
	return nil
}

// Delete hard-deletes a season. Child rows (bosses, members, schedules,
// battles) go with it through ON DELETE CASCADE foreign keys.
func (r *SeasonRepo) Delete(ctx context.Context, id, unionID int64) error {
	if err := checkSeasonOwner(ctx, r.db, id, unionID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1 AND union_id = $2`, id, unionID)
	return err
}

// CheckOwner exposes the season ownership check for handlers that validate
// scope before calling into other repositories.
func (r *SeasonRepo) CheckOwner(ctx context.Context, seasonID, unionID int64) error {
	return checkSeasonOwner(ctx, r.db, seasonID, unionID)
}
