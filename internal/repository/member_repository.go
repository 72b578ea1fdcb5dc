// This file defines repository methods for season rosters. Members are
// soft-deleted so that battle records referencing them by name keep their
// meaning after the roster changes.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// MemberRepo encapsulates all database queries related to members.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo constructs a MemberRepo with the provided DB handle.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

// ListBySeason returns the non-deleted members of a season in insertion
// order.
func (r *MemberRepo) ListBySeason(ctx context.Context, seasonID int64) ([]model.Member, error) {
	const q = `SELECT id, season_id, name, created_at, updated_at, deleted_at
	           FROM members WHERE season_id = $1 AND deleted_at IS NULL
	           ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// Create adds a member to the season roster. Name uniqueness is checked
// against the non-deleted roster in the same statement as the insert, so two
// concurrent adds of the same name cannot both succeed. Zero rows inserted
// means the name is taken.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member, unionID int64) error {
	if err := checkSeasonOwner(ctx, r.db, m.SeasonID, unionID); err != nil {
		return err
	}
	const q = `INSERT INTO members (season_id, name)
	           SELECT $1, $2
	           WHERE NOT EXISTS (
	             SELECT 1 FROM members WHERE season_id = $1 AND name = $2 AND deleted_at IS NULL
	           )
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, m.SeasonID, m.Name).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrConflict
	}
	return err
}

// SoftDelete marks a member removed. Their schedule for the season is
// retired in the same transaction so the sync protocol reports both
// deletions in one delta cycle.
func (r *MemberRepo) SoftDelete(ctx context.Context, id, unionID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkRowOwner(ctx, tx, "members", id, unionID); err != nil {
		return err
	}
	const q = `UPDATE members SET deleted_at = NOW(), updated_at = NOW()
	           WHERE id = $1 AND deleted_at IS NULL`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound // already deleted
	}
	const qSched = `UPDATE member_schedules SET deleted_at = NOW(), updated_at = NOW()
	                WHERE member_id = $1 AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, qSched, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ExistsByName reports whether a non-deleted member with the given name is
// on the season roster. Battle inserts use it to re-validate the member
// reference server side.
func (r *MemberRepo) ExistsByName(ctx context.Context, seasonID int64, name string) (bool, error) {
	const q = `SELECT EXISTS (
	             SELECT 1 FROM members WHERE season_id = $1 AND name = $2 AND deleted_at IS NULL
	           )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, seasonID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanMembers(rows *sql.Rows) ([]model.Member, error) {
	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.SeasonID, &m.Name, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
