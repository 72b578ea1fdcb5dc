// This file implements the read side of the incremental sync protocol: full
// season snapshots and delta-since-timestamp queries. Both stamp the payload
// with the database clock captured before any entity query runs, so the next
// delta window overlaps rather than skips rows written mid-request.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// SyncRepo serves the /data endpoint. It reuses the per-entity repositories
// for snapshot listing and owns the delta queries.
type SyncRepo struct {
	db        *sql.DB
	bosses    *BossRepo
	members   *MemberRepo
	schedules *ScheduleRepo
	mocks     *MockBattleRepo
	raids     *RaidBattleRepo
}

// NewSyncRepo constructs a SyncRepo over the shared DB handle.
func NewSyncRepo(db *sql.DB) *SyncRepo {
	return &SyncRepo{
		db:        db,
		bosses:    NewBossRepo(db),
		members:   NewMemberRepo(db),
		schedules: NewScheduleRepo(db),
		mocks:     NewMockBattleRepo(db),
		raids:     NewRaidBattleRepo(db),
	}
}

// now reads the database clock so snapshot and delta timestamps come from
// the same clock the row timestamps do.
func (r *SyncRepo) now(ctx context.Context) (time.Time, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx, `SELECT NOW()`).Scan(&t)
	return t, err
}

// Snapshot returns every live row of the season. The caller has already
// verified the season belongs to the requesting union.
func (r *SyncRepo) Snapshot(ctx context.Context, seasonID int64) (*model.SnapshotPayload, error) {
	ts, err := r.now(ctx)
	if err != nil {
		return nil, err
	}
	p := &model.SnapshotPayload{Timestamp: ts}
	if p.Bosses, err = r.bosses.ListBySeason(ctx, seasonID); err != nil {
		return nil, err
	}
	if p.Members, err = r.members.ListBySeason(ctx, seasonID); err != nil {
		return nil, err
	}
	if p.Schedules, err = r.schedules.ListBySeason(ctx, seasonID); err != nil {
		return nil, err
	}
	if p.MockBattles, err = r.mocks.ListBySeason(ctx, seasonID); err != nil {
		return nil, err
	}
	if p.RaidBattles, err = r.raids.ListBySeason(ctx, seasonID); err != nil {
		return nil, err
	}
	return p, nil
}

// Delta returns, per entity, the rows updated after lastSync (live rows
// only) and the ids soft-deleted after lastSync. Bosses carry no deleted
// set; they are delivered as a whole grid whenever any row changed, because
// the client swaps its boss collection on a non-empty set.
func (r *SyncRepo) Delta(ctx context.Context, seasonID int64, lastSync time.Time) (*model.DeltaPayload, error) {
	ts, err := r.now(ctx)
	if err != nil {
		return nil, err
	}
	p := &model.DeltaPayload{Timestamp: ts}

	// A non-empty boss set means "replace the whole grid" to the client, so
	// any boss change since lastSync must ship the complete current grid.
	// Shipping only the changed rows would collapse the client's grid to
	// those rows after a single-boss patch.
	var bossesChanged bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bosses WHERE season_id = $1 AND updated_at > $2)`,
		seasonID, lastSync).Scan(&bossesChanged)
	if err != nil {
		return nil, err
	}
	if bossesChanged {
		if p.Bosses.Updated, err = r.bosses.ListBySeason(ctx, seasonID); err != nil {
			return nil, err
		}
	} else {
		p.Bosses.Updated = []model.Boss{}
	}
	p.Bosses.Deleted = []int64{}

	const qMembers = `SELECT id, season_id, name, created_at, updated_at, deleted_at
	                  FROM members
	                  WHERE season_id = $1 AND updated_at > $2 AND deleted_at IS NULL
	                  ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, qMembers, seasonID, lastSync)
	if err != nil {
		return nil, err
	}
	p.Members.Updated, err = scanMembers(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if p.Members.Deleted, err = r.deletedIDs(ctx, "members", seasonID, lastSync); err != nil {
		return nil, err
	}

	const qSchedules = `SELECT id, member_id, season_id, time_slots, updated_at, deleted_at
	                    FROM member_schedules
	                    WHERE season_id = $1 AND updated_at > $2 AND deleted_at IS NULL
	                    ORDER BY id ASC`
	rows, err = r.db.QueryContext(ctx, qSchedules, seasonID, lastSync)
	if err != nil {
		return nil, err
	}
	p.Schedules.Updated, err = scanSchedules(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if p.Schedules.Deleted, err = r.deletedIDs(ctx, "member_schedules", seasonID, lastSync); err != nil {
		return nil, err
	}

	const qMocks = `SELECT id, season_id, member_name, boss_id, deck_composition, damage, created_at, updated_at, deleted_at
	                FROM mock_battles
	                WHERE season_id = $1 AND updated_at > $2 AND deleted_at IS NULL
	                ORDER BY id DESC`
	rows, err = r.db.QueryContext(ctx, qMocks, seasonID, lastSync)
	if err != nil {
		return nil, err
	}
	p.MockBattles.Updated, err = scanMockBattles(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if p.MockBattles.Deleted, err = r.deletedIDs(ctx, "mock_battles", seasonID, lastSync); err != nil {
		return nil, err
	}

	const qRaids = `SELECT id, season_id, member_name, level, boss_id, deck_composition, damage, timestamp, created_at, updated_at, deleted_at
	                FROM raid_battles
	                WHERE season_id = $1 AND updated_at > $2 AND deleted_at IS NULL
	                ORDER BY timestamp DESC, id DESC`
	rows, err = r.db.QueryContext(ctx, qRaids, seasonID, lastSync)
	if err != nil {
		return nil, err
	}
	p.RaidBattles.Updated, err = scanRaidBattles(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if p.RaidBattles.Deleted, err = r.deletedIDs(ctx, "raid_battles", seasonID, lastSync); err != nil {
		return nil, err
	}

	return p, nil
}

// deletedIDs lists the ids of rows soft-deleted after lastSync. The table
// name comes from the fixed set of callers above, never from user input.
func (r *SyncRepo) deletedIDs(ctx context.Context, table string, seasonID int64, lastSync time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM `+table+` WHERE season_id = $1 AND deleted_at > $2 ORDER BY id ASC`,
		seasonID, lastSync)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
