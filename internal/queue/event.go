// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// Entity names used in row-change events. They match the JSON collection
// names in sync payloads so the reconciler can route both through one merge
// function.
const (
	EntitySeason     = "seasons"
	EntityBoss       = "bosses"
	EntityMember     = "members"
	EntitySchedule   = "memberSchedules"
	EntityMockBattle = "mockBattles"
	EntityRaidBattle = "raidBattles"
)

// Row-change actions.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RowChangeQueue is the durable queue mutating handlers publish to and the
// realtime bridge consumes from.
const RowChangeQueue = "raid.row_changes"

// RowChangeEvent is published after every successful mutation. It carries
// enough information for the realtime hub to fan the change out to the
// owning union's subscribers and for client reconcilers to apply it with the
// same merge rule used for delta payloads: Row holds the full updated row
// for inserts and updates, and only the id matters for deletes.
type RowChangeEvent struct {
	UnionID  int64           `json:"union_id"`
	SeasonID int64           `json:"season_id,omitempty"`
	Entity   string          `json:"entity"`
	Action   string          `json:"action"`
	RowID    int64           `json:"row_id"`
	Row      json.RawMessage `json:"row,omitempty"`
}
