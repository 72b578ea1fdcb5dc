// Package reconciler maintains the client-side view of one union's data. It
// merges full snapshots, delta payloads and single row-change events into
// in-memory collections keyed by id, using one merge rule for all three
// paths, and recomputes derived dashboard values from the collections on
// demand. The store is hydrated on login and torn down on logout.
package reconciler

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// Store holds the reconciled collections for the active union. All methods
// are safe for concurrent use; the polling loop and the websocket feed both
// write into it.
type Store struct {
	mu          sync.RWMutex
	seasons     map[int64]model.Season
	bosses      map[int64]model.Boss
	members     map[int64]model.Member
	schedules   map[int64]model.MemberSchedule
	mockBattles map[int64]model.MockBattle
	raidBattles map[int64]model.RaidBattle
	lastSync    time.Time
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.seasons = make(map[int64]model.Season)
	s.bosses = make(map[int64]model.Boss)
	s.members = make(map[int64]model.Member)
	s.schedules = make(map[int64]model.MemberSchedule)
	s.mockBattles = make(map[int64]model.MockBattle)
	s.raidBattles = make(map[int64]model.RaidBattle)
	s.lastSync = time.Time{}
}

// Reset clears every collection and the sync cursor. Called on logout and
// when switching seasons, since all season-scoped collections belong to one
// season at a time.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// LastSync returns the cursor to send as lastSync on the next poll. The zero
// time means no snapshot has been applied yet and the next fetch must be a
// full snapshot.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// ApplySeasonList replaces the season collection. Member counts ride on the
// season rows and are kept incrementally current by ApplyEvent between
// refreshes.
func (s *Store) ApplySeasonList(p model.SeasonListPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons = make(map[int64]model.Season, len(p.Seasons))
	for _, season := range p.Seasons {
		s.seasons[season.ID] = season
	}
}

// ApplySnapshot replaces every season-scoped collection with the snapshot
// contents and advances the cursor to the snapshot's timestamp.
func (s *Store) ApplySnapshot(p *model.SnapshotPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bosses = make(map[int64]model.Boss, len(p.Bosses))
	for _, b := range p.Bosses {
		s.bosses[b.ID] = b
	}
	s.members = make(map[int64]model.Member, len(p.Members))
	for _, m := range p.Members {
		s.members[m.ID] = m
	}
	s.schedules = make(map[int64]model.MemberSchedule, len(p.Schedules))
	for _, sc := range p.Schedules {
		s.schedules[sc.ID] = sc
	}
	s.mockBattles = make(map[int64]model.MockBattle, len(p.MockBattles))
	for _, b := range p.MockBattles {
		s.mockBattles[b.ID] = b
	}
	s.raidBattles = make(map[int64]model.RaidBattle, len(p.RaidBattles))
	for _, b := range p.RaidBattles {
		s.raidBattles[b.ID] = b
	}
	s.lastSync = p.Timestamp
}

// ApplyDelta merges a delta payload: per entity, drop the deleted ids and
// upsert the updated rows. The operation is idempotent; applying the same
// payload twice leaves the collections unchanged after the first pass.
//
// Bosses are the exception: they carry no deleted set because boss settings
// are saved as a whole-grid replace, so a non-empty updated set is the
// complete new grid and swaps the collection.
func (s *Store) ApplyDelta(p *model.DeltaPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(p.Bosses.Updated) > 0 {
		s.bosses = make(map[int64]model.Boss, len(p.Bosses.Updated))
		for _, b := range p.Bosses.Updated {
			s.bosses[b.ID] = b
		}
	}

	for _, id := range p.Members.Deleted {
		delete(s.members, id)
	}
	for _, m := range p.Members.Updated {
		s.members[m.ID] = m
	}

	for _, id := range p.Schedules.Deleted {
		delete(s.schedules, id)
	}
	for _, sc := range p.Schedules.Updated {
		s.schedules[sc.ID] = sc
	}

	for _, id := range p.MockBattles.Deleted {
		delete(s.mockBattles, id)
	}
	for _, b := range p.MockBattles.Updated {
		s.mockBattles[b.ID] = b
	}

	for _, id := range p.RaidBattles.Deleted {
		delete(s.raidBattles, id)
	}
	for _, b := range p.RaidBattles.Updated {
		s.raidBattles[b.ID] = b
	}

	s.lastSync = p.Timestamp
}

// ApplyEvent merges one realtime row-change event with the same rule deltas
// use, so the push path and the poll path cannot diverge. Member events also
// adjust the owning season's member count incrementally, avoiding a season
// list refetch on every roster change. Events the store cannot interpret are
// ignored; the next poll repairs any gap.
func (s *Store) ApplyEvent(ev queue.RowChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Entity {
	case queue.EntitySeason:
		switch ev.Action {
		case queue.ActionDelete:
			delete(s.seasons, ev.RowID)
		default:
			var season model.Season
			if ev.Row != nil && json.Unmarshal(ev.Row, &season) == nil && season.ID != 0 {
				// Preserve the locally maintained member count; season events
				// never carry it.
				if prev, ok := s.seasons[season.ID]; ok {
					season.MemberCount = prev.MemberCount
				}
				s.seasons[season.ID] = season
			}
		}

	case queue.EntityBoss:
		// Grid-save events have row id 0 and carry the full grid; single-row
		// patches carry one boss and merge by id.
		if ev.RowID == 0 {
			var grid []model.Boss
			if ev.Row != nil && json.Unmarshal(ev.Row, &grid) == nil {
				s.bosses = make(map[int64]model.Boss, len(grid))
				for _, b := range grid {
					s.bosses[b.ID] = b
				}
			}
			return
		}
		var b model.Boss
		if ev.Row != nil && json.Unmarshal(ev.Row, &b) == nil && b.ID != 0 {
			s.bosses[b.ID] = b
		}

	case queue.EntityMember:
		switch ev.Action {
		case queue.ActionDelete:
			if m, ok := s.members[ev.RowID]; ok {
				s.adjustMemberCount(m.SeasonID, -1)
				delete(s.members, ev.RowID)
			}
		default:
			var m model.Member
			if ev.Row != nil && json.Unmarshal(ev.Row, &m) == nil && m.ID != 0 {
				if _, known := s.members[m.ID]; !known && ev.Action == queue.ActionInsert {
					s.adjustMemberCount(m.SeasonID, +1)
				}
				s.members[m.ID] = m
			}
		}

	case queue.EntitySchedule:
		if ev.Action == queue.ActionDelete {
			delete(s.schedules, ev.RowID)
			return
		}
		var sc model.MemberSchedule
		if ev.Row != nil && json.Unmarshal(ev.Row, &sc) == nil && sc.ID != 0 {
			s.schedules[sc.ID] = sc
		}

	case queue.EntityMockBattle:
		if ev.Action == queue.ActionDelete {
			delete(s.mockBattles, ev.RowID)
			return
		}
		var b model.MockBattle
		if ev.Row != nil && json.Unmarshal(ev.Row, &b) == nil && b.ID != 0 {
			s.mockBattles[b.ID] = b
		}

	case queue.EntityRaidBattle:
		if ev.Action == queue.ActionDelete {
			delete(s.raidBattles, ev.RowID)
			return
		}
		var b model.RaidBattle
		if ev.Row != nil && json.Unmarshal(ev.Row, &b) == nil && b.ID != 0 {
			s.raidBattles[b.ID] = b
		}
	}
}

// adjustMemberCount is called with the lock held.
func (s *Store) adjustMemberCount(seasonID int64, delta int) {
	if season, ok := s.seasons[seasonID]; ok {
		season.MemberCount += delta
		if season.MemberCount < 0 {
			season.MemberCount = 0
		}
		s.seasons[seasonID] = season
	}
}

// Seasons returns the seasons sorted newest first, like the server list.
func (s *Store) Seasons() []model.Season {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Season, 0, len(s.seasons))
	for _, season := range s.seasons {
		out = append(out, season)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Bosses returns the boss grid ordered by level, then display order, then id.
func (s *Store) Bosses() []model.Boss {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Boss, 0, len(s.bosses))
	for _, b := range s.bosses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Members returns the roster in insertion order.
func (s *Store) Members() []model.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Schedules returns the availability rows in insertion order.
func (s *Store) Schedules() []model.MemberSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MemberSchedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockBattles returns practice records, newest first.
func (s *Store) MockBattles() []model.MockBattle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MockBattle, 0, len(s.mockBattles))
	for _, b := range s.mockBattles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// RaidBattles returns real attempts, most recent first.
func (s *Store) RaidBattles() []model.RaidBattle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RaidBattle, 0, len(s.raidBattles))
	for _, b := range s.raidBattles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
