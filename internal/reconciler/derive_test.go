package reconciler

import (
	"testing"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

func storeWithBosses(bosses []model.Boss, raids []model.RaidBattle) *Store {
	s := New()
	s.ApplySnapshot(&model.SnapshotPayload{
		Bosses:      bosses,
		RaidBattles: raids,
		Timestamp:   time.Now(),
	})
	return s
}

// One level-1 boss with hp 1000 and recorded damage 600+500 is defeated, so
// the season advances to level 2.
func TestCurrentLevelAdvancesOnDefeat(t *testing.T) {
	s := storeWithBosses(
		[]model.Boss{{ID: 1, Level: 1, Attribute: model.AttributeIron, HP: 1000}},
		[]model.RaidBattle{
			{ID: 10, MemberName: "alice", BossID: 1, Damage: 600},
			{ID: 11, MemberName: "bob", BossID: 1, Damage: 500},
		},
	)
	if got := s.CurrentLevel(); got != 2 {
		t.Fatalf("current level = %d, want 2", got)
	}
}

func TestCurrentLevelStaysWhileBossAlive(t *testing.T) {
	s := storeWithBosses(
		[]model.Boss{{ID: 1, Level: 1, Attribute: model.AttributeIron, HP: 1000}},
		[]model.RaidBattle{{ID: 10, MemberName: "alice", BossID: 1, Damage: 999}},
	)
	if got := s.CurrentLevel(); got != 1 {
		t.Fatalf("current level = %d, want 1", got)
	}
}

func TestCurrentLevelEmptyGridIsLevelOne(t *testing.T) {
	s := New()
	if got := s.CurrentLevel(); got != 1 {
		t.Fatalf("current level of empty season = %d, want 1", got)
	}
}

func TestCurrentLevelAllClearedIsInfinite(t *testing.T) {
	bosses := []model.Boss{}
	raids := []model.RaidBattle{}
	var id int64 = 1
	for _, level := range []int{1, 2, 3} {
		bosses = append(bosses, model.Boss{ID: id, Level: level, Attribute: model.AttributeIron, HP: 100})
		raids = append(raids, model.RaidBattle{ID: 100 + id, MemberName: "alice", BossID: id, Damage: 100})
		id++
	}
	s := storeWithBosses(bosses, raids)
	if got := s.CurrentLevel(); got != model.LevelInfinite {
		t.Fatalf("current level = %d, want %d", got, model.LevelInfinite)
	}
}

func TestDamageTotalsAndDeckUsage(t *testing.T) {
	s := storeWithBosses(nil, []model.RaidBattle{
		{ID: 1, MemberName: "alice", BossID: 1, Damage: 600},
		{ID: 2, MemberName: "alice", BossID: 2, Damage: 400},
		{ID: 3, MemberName: "bob", BossID: 1, Damage: 500},
	})
	totals := s.DamageTotals()
	if totals["alice"] != 1000 || totals["bob"] != 500 {
		t.Fatalf("unexpected totals: %v", totals)
	}
	usage := s.DeckUsage()
	if usage["alice"] != 2 || usage["bob"] != 1 {
		t.Fatalf("unexpected deck usage: %v", usage)
	}
}

func TestRemainingHP(t *testing.T) {
	s := storeWithBosses(
		[]model.Boss{{ID: 1, Level: 1, Attribute: model.AttributeIron, HP: 1000}},
		[]model.RaidBattle{
			{ID: 10, MemberName: "alice", BossID: 1, Damage: 600},
			{ID: 11, MemberName: "bob", BossID: 1, Damage: 700},
		},
	)
	hp, ok := s.RemainingHP(1)
	if !ok || hp != 0 {
		t.Fatalf("remaining hp = %d (ok=%v), want 0 floored", hp, ok)
	}
	if _, ok := s.RemainingHP(99); ok {
		t.Fatal("unknown boss must report ok=false")
	}
}

func TestAvailabilityHistogram(t *testing.T) {
	s := New()
	s.ApplySnapshot(&model.SnapshotPayload{
		Schedules: []model.MemberSchedule{
			{ID: 1, MemberID: 1, SeasonID: 1, TimeSlots: "05:00-08:00"},
			{ID: 2, MemberID: 2, SeasonID: 1, TimeSlots: "06:00-07:00,22:00-24:00"},
			{ID: 3, MemberID: 3, SeasonID: 1, TimeSlots: "not a schedule"}, // skipped
		},
		Timestamp: time.Now(),
	})
	hist := s.AvailabilityHistogram()
	if hist[5] != 1 || hist[6] != 2 || hist[7] != 1 || hist[23] != 1 || hist[0] != 0 {
		t.Fatalf("unexpected histogram: %v", hist)
	}
}
