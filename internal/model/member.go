package model

import "time"

// Member is a roster entry for a season.  Members are soft-deleted (DeletedAt
// set) rather than removed so battle records that reference the member by
// name keep displaying after the roster changes.
type Member struct {
	ID        int64      `json:"id"`
	SeasonID  int64      `json:"season_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}
