// This file defines repository methods for member schedules. One schedule
// row exists per (member, season); saves are upserts on that composite key.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// ScheduleRepo encapsulates all database queries related to member schedules.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the provided DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// ListBySeason returns the non-deleted schedules of a season.
func (r *ScheduleRepo) ListBySeason(ctx context.Context, seasonID int64) ([]model.MemberSchedule, error) {
	const q = `SELECT id, member_id, season_id, time_slots, updated_at, deleted_at
	           FROM member_schedules WHERE season_id = $1 AND deleted_at IS NULL
	           ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// Upsert saves a member's schedule for the season, inserting or overwriting
// the single row keyed on (member_id, season_id). The member must be on the
// season's live roster; like the battle inserts, the EXISTS predicate makes
// that part of the write, so a schedule can never attach to a member of
// another season. Re-saving also revives a soft-deleted schedule, which is
// what the UI expects when a member fills the form in again.
func (r *ScheduleRepo) Upsert(ctx context.Context, s *model.MemberSchedule, unionID int64) error {
	if err := checkSeasonOwner(ctx, r.db, s.SeasonID, unionID); err != nil {
		return err
	}
	const q = `INSERT INTO member_schedules (member_id, season_id, time_slots, updated_at)
	           SELECT $1, $2, $3, NOW()
	           WHERE EXISTS (SELECT 1 FROM members
	                         WHERE id = $1 AND season_id = $2 AND deleted_at IS NULL)
	           ON CONFLICT (member_id, season_id)
	           DO UPDATE SET time_slots = EXCLUDED.time_slots, updated_at = NOW(), deleted_at = NULL
	           RETURNING id, updated_at`
	err := r.db.QueryRowContext(ctx, q, s.MemberID, s.SeasonID, s.TimeSlots).Scan(&s.ID, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound // member not on this season's roster
	}
	return err
}

// SoftDelete marks a schedule removed.
func (r *ScheduleRepo) SoftDelete(ctx context.Context, id, unionID int64) error {
	if err := checkRowOwner(ctx, r.db, "member_schedules", id, unionID); err != nil {
		return err
	}
	const q = `UPDATE member_schedules SET deleted_at = NOW(), updated_at = NOW()
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

func scanSchedules(rows *sql.Rows) ([]model.MemberSchedule, error) {
	schedules := []model.MemberSchedule{}
	for rows.Next() {
		var s model.MemberSchedule
		if err := rows.Scan(&s.ID, &s.MemberID, &s.SeasonID, &s.TimeSlots, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
