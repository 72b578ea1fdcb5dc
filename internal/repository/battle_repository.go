// This file defines repository methods for mock and raid battles. Mock
// battles are unlimited practice records; raid battles consume the
// per-member deck budget, enforced under a per-member row lock so
// concurrent submissions cannot overshoot it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// MockBattleRepo encapsulates all database queries related to mock battles.
type MockBattleRepo struct {
	db *sql.DB
}

// NewMockBattleRepo constructs a MockBattleRepo with the provided DB handle.
func NewMockBattleRepo(db *sql.DB) *MockBattleRepo { return &MockBattleRepo{db: db} }

// ListBySeason returns non-deleted mock battles, newest first.
func (r *MockBattleRepo) ListBySeason(ctx context.Context, seasonID int64) ([]model.MockBattle, error) {
	const q = `SELECT id, season_id, member_name, boss_id, deck_composition, damage, created_at, updated_at, deleted_at
	           FROM mock_battles WHERE season_id = $1 AND deleted_at IS NULL
	           ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMockBattles(rows)
}

// Create records a practice attempt. The referenced boss must belong to the
// same season; the INSERT ... SELECT makes that predicate part of the write,
// and zero rows inserted means the boss reference was bad.
func (r *MockBattleRepo) Create(ctx context.Context, b *model.MockBattle, unionID int64) error {
	if err := checkSeasonOwner(ctx, r.db, b.SeasonID, unionID); err != nil {
		return err
	}
	const q = `INSERT INTO mock_battles (season_id, member_name, boss_id, deck_composition, damage)
	           SELECT $1, $2, $3, $4, $5
	           WHERE EXISTS (SELECT 1 FROM bosses WHERE id = $3 AND season_id = $1)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, b.SeasonID, b.MemberName, b.BossID, b.DeckComposition, b.Damage).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound // boss not in this season
	}
	return err
}

// SoftDelete marks a mock battle removed.
func (r *MockBattleRepo) SoftDelete(ctx context.Context, id, unionID int64) error {
	if err := checkRowOwner(ctx, r.db, "mock_battles", id, unionID); err != nil {
		return err
	}
	const q = `UPDATE mock_battles SET deleted_at = NOW(), updated_at = NOW()
	           WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RaidBattleRepo encapsulates all database queries related to raid battles.
type RaidBattleRepo struct {
	db *sql.DB
}

// NewRaidBattleRepo constructs a RaidBattleRepo with the provided DB handle.
func NewRaidBattleRepo(db *sql.DB) *RaidBattleRepo { return &RaidBattleRepo{db: db} }

// ListBySeason returns non-deleted raid battles, most recent attempt first.
func (r *RaidBattleRepo) ListBySeason(ctx context.Context, seasonID int64) ([]model.RaidBattle, error) {
	const q = `SELECT id, season_id, member_name, level, boss_id, deck_composition, damage, timestamp, created_at, updated_at, deleted_at
	           FROM raid_battles WHERE season_id = $1 AND deleted_at IS NULL
	           ORDER BY timestamp DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRaidBattles(rows)
}

// Create records a raid attempt. The transaction locks the member's roster
// row before the count-gated insert, so concurrent submissions for the same
// member serialize and the deck budget is never overshot. Without the lock,
// two read-committed statements could each count the pre-existing rows and
// both pass the gate. Zero rows inserted with a valid boss means the budget
// is spent.
func (r *RaidBattleRepo) Create(ctx context.Context, b *model.RaidBattle, unionID int64, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkSeasonOwner(ctx, tx, b.SeasonID, unionID); err != nil {
		return err
	}

	var memberID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM members WHERE season_id = $1 AND name = $2 AND deleted_at IS NULL FOR UPDATE`,
		b.SeasonID, b.MemberName).Scan(&memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound // member not on the season roster
	}
	if err != nil {
		return err
	}

	const q = `INSERT INTO raid_battles (season_id, member_name, level, boss_id, deck_composition, damage, timestamp)
	           SELECT $1, $2, $3, $4, $5, $6, $7
	           WHERE EXISTS (SELECT 1 FROM bosses WHERE id = $4 AND season_id = $1)
	             AND (SELECT COUNT(*) FROM raid_battles
	                  WHERE season_id = $1 AND member_name = $2 AND deleted_at IS NULL) < $8
	           RETURNING id, timestamp, created_at, updated_at`
	err = tx.QueryRowContext(ctx, q,
		b.SeasonID, b.MemberName, b.Level, b.BossID, b.DeckComposition, b.Damage, at, model.DeckBudget).
		Scan(&b.ID, &b.Timestamp, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a spent budget from a bad boss reference for the error
		// message; neither path wrote anything.
		var bossOK bool
		if checkErr := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM bosses WHERE id = $1 AND season_id = $2)`,
			b.BossID, b.SeasonID).Scan(&bossOK); checkErr == nil && !bossOK {
			return ErrNotFound
		}
		return ErrDeckLimit
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SoftDelete marks a raid battle removed, refunding the member's deck slot.
func (r *RaidBattleRepo) SoftDelete(ctx context.Context, id, unionID int64) error {
	if err := checkRowOwner(ctx, r.db, "raid_battles", id, unionID); err != nil {
		return err
	}
	const q = `UPDATE raid_battles SET deleted_at = NOW(), updated_at = NOW()
	           WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMockBattles(rows *sql.Rows) ([]model.MockBattle, error) {
	battles := []model.MockBattle{}
	for rows.Next() {
		var b model.MockBattle
		if err := rows.Scan(&b.ID, &b.SeasonID, &b.MemberName, &b.BossID, &b.DeckComposition, &b.Damage, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, err
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}

func scanRaidBattles(rows *sql.Rows) ([]model.RaidBattle, error) {
	battles := []model.RaidBattle{}
	for rows.Next() {
		var b model.RaidBattle
		if err := rows.Scan(&b.ID, &b.SeasonID, &b.MemberName, &b.Level, &b.BossID, &b.DeckComposition, &b.Damage, &b.Timestamp, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, err
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}
