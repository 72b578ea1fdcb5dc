package model

import "time"

// Season is one raid event cycle owned by a union.  It is the scoping unit
// for bosses, members, schedules and battle records.  At most one season per
// union is active at a time; activation is enforced with a single conditional
// UPDATE so readers never observe two active seasons.
type Season struct {
	ID        int64     `json:"id"`
	UnionID   int64     `json:"union_id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MemberCount is computed by the season-list query (count of non-deleted
	// members); it is not a column.
	MemberCount int `json:"member_count,omitempty"`
}
