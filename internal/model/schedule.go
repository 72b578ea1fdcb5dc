package model

import "time"

// MemberSchedule stores a member's availability for a season as a serialized
// set of hour ranges, e.g. "05:00-12:00,18:00-24:00".  One row exists per
// (member, season); saves are upserts on that key.  Soft-deleted like members.
type MemberSchedule struct {
	ID        int64      `json:"id"`
	MemberID  int64      `json:"member_id"`
	SeasonID  int64      `json:"season_id"`
	TimeSlots string     `json:"time_slots"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}
