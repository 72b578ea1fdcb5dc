package model

import "time"

// Payload types for the /data endpoint. The endpoint has three modes:
// season list (no season id), full snapshot (season id, no lastSync) and
// delta (season id + lastSync). The reconciler consumes the same types, so
// the polling path and the realtime path provably share one merge contract.

// SeasonListPayload is returned when no season is selected yet.
type SeasonListPayload struct {
	Seasons []Season `json:"seasons"`
}

// SnapshotPayload carries every live row of a season. Timestamp is the
// server clock captured before the entity queries ran; clients persist it
// and send it back as lastSync, so a row touched while the snapshot was
// being assembled reappears in the next delta instead of being lost.
type SnapshotPayload struct {
	Bosses      []Boss           `json:"bosses"`
	Members     []Member         `json:"members"`
	Schedules   []MemberSchedule `json:"memberSchedules"`
	MockBattles []MockBattle     `json:"mockBattles"`
	RaidBattles []RaidBattle     `json:"raidBattles"`
	Timestamp   time.Time        `json:"timestamp"`
}

// BossDelta lists bosses changed since lastSync. Bosses have no deleted_at
// column because boss settings are saved as a whole-grid replace; a
// non-empty Updated set is therefore the complete new grid and the
// reconciler swaps its boss collection instead of merging row by row.
type BossDelta struct {
	Updated []Boss  `json:"updated"`
	Deleted []int64 `json:"deleted"`
}

// MemberDelta lists members changed or soft-deleted since lastSync.
type MemberDelta struct {
	Updated []Member `json:"updated"`
	Deleted []int64  `json:"deleted"`
}

// ScheduleDelta lists schedules changed or soft-deleted since lastSync.
type ScheduleDelta struct {
	Updated []MemberSchedule `json:"updated"`
	Deleted []int64          `json:"deleted"`
}

// MockBattleDelta lists mock battles changed or soft-deleted since lastSync.
type MockBattleDelta struct {
	Updated []MockBattle `json:"updated"`
	Deleted []int64      `json:"deleted"`
}

// RaidBattleDelta lists raid battles changed or soft-deleted since lastSync.
type RaidBattleDelta struct {
	Updated []RaidBattle `json:"updated"`
	Deleted []int64      `json:"deleted"`
}

// DeltaPayload carries, per entity, the rows updated since lastSync
// (excluding soft-deleted rows) and the ids soft-deleted since lastSync.
// Within one payload a given id appears in at most one of the two sets:
// soft-delete advances updated_at through the same gate, so a row is either
// freshly updated or freshly deleted in a cycle, never both.
type DeltaPayload struct {
	Bosses      BossDelta       `json:"bosses"`
	Members     MemberDelta     `json:"members"`
	Schedules   ScheduleDelta   `json:"memberSchedules"`
	MockBattles MockBattleDelta `json:"mockBattles"`
	RaidBattles RaidBattleDelta `json:"raidBattles"`
	Timestamp   time.Time       `json:"timestamp"`
}
