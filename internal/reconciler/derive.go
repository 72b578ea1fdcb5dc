package reconciler

import (
	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/utils"
)

// Derived dashboard values. Each function recomputes from the current
// collections rather than patching a cached result; the collections are
// small (a season's worth of rows) and recomputation is what keeps the
// derived views trivially consistent with every merge path.

// DamageTotals sums raid damage per member name.
func (s *Store) DamageTotals() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := make(map[string]int64)
	for _, b := range s.raidBattles {
		totals[b.MemberName] += b.Damage
	}
	return totals
}

// DeckUsage counts recorded raid battles per member name. The client uses it
// to grey out the entry form once a member reaches the deck budget; the
// server enforces the cap regardless.
func (s *Store) DeckUsage() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	usage := make(map[string]int)
	for _, b := range s.raidBattles {
		usage[b.MemberName]++
	}
	return usage
}

// RemainingHP returns the boss's hp minus cumulative raid damage against it,
// floored at zero. The second return is false when the boss id is unknown.
func (s *Store) RemainingHP(bossID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bosses[bossID]
	if !ok {
		return 0, false
	}
	remaining := b.HP
	for _, battle := range s.raidBattles {
		if battle.BossID == bossID {
			remaining -= battle.Damage
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// CurrentLevel derives the season's active boss tier: the lowest capped
// level whose bosses are not yet all defeated by cumulative raid damage. A
// level with no configured bosses cannot be cleared, so an empty grid keeps
// the season at level 1. Once every capped tier is cleared the uncapped
// sentinel tier is current.
func (s *Store) CurrentLevel() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	damage := make(map[int64]int64)
	for _, b := range s.raidBattles {
		damage[b.BossID] += b.Damage
	}

	for _, level := range model.BossLevels {
		if level == model.LevelInfinite {
			break
		}
		configured := false
		cleared := true
		for _, b := range s.bosses {
			if b.Level != level {
				continue
			}
			configured = true
			if damage[b.ID] < b.HP {
				cleared = false
				break
			}
		}
		if !configured || !cleared {
			return level
		}
	}
	return model.LevelInfinite
}

// AvailabilityHistogram counts, per hour of day, how many members' schedules
// cover that hour. Unparsable schedule rows are skipped; the histogram is a
// planning aid, not a source of truth.
func (s *Store) AvailabilityHistogram() [24]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hist [24]int
	for _, sc := range s.schedules {
		ranges, err := utils.ParseTimeSlots(sc.TimeSlots)
		if err != nil {
			continue
		}
		var covered [24]bool
		for _, r := range ranges {
			for h := r.Start; h < r.End && h < 24; h++ {
				covered[h] = true
			}
		}
		for h, c := range covered {
			if c {
				hist[h]++
			}
		}
	}
	return hist
}
