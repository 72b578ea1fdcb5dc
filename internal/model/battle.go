package model

import "time"

// MockBattle is a practice attempt against a boss.  MemberName is matched to
// Member.Name by string equality rather than a foreign key so that renaming
// or removing a member never orphans the historical record.  Unlimited per
// member.
type MockBattle struct {
	ID              int64      `json:"id"`
	SeasonID        int64      `json:"season_id"`
	MemberName      string     `json:"member_name"`
	BossID          int64      `json:"boss_id"`
	DeckComposition string     `json:"deck_composition"`
	Damage          int64      `json:"damage"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}

// RaidBattle is a real attempt.  Each member has a budget of 3 per season
// (one per deck); the cap is enforced atomically at insert time.  Timestamp
// records when the attempt happened, in the configured event timezone.
type RaidBattle struct {
	ID              int64      `json:"id"`
	SeasonID        int64      `json:"season_id"`
	MemberName      string     `json:"member_name"`
	Level           int        `json:"level"`
	BossID          int64      `json:"boss_id"`
	DeckComposition string     `json:"deck_composition"`
	Damage          int64      `json:"damage"`
	Timestamp       time.Time  `json:"timestamp"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
}

// DeckBudget is the number of raid battles each member may record per season.
const DeckBudget = 3
