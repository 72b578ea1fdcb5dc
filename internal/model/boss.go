package model

import "time"

// Boss attribute enum.  A fully configured season has one boss per
// (attribute, level) pair: 5 attributes x 4 levels = 20 rows.
const (
	AttributeIron     = "iron"
	AttributeWater    = "water"
	AttributeWind     = "wind"
	AttributeFire     = "fire"
	AttributeElectric = "electric"
)

// Attributes lists the five boss attributes in display order.
var Attributes = []string{AttributeIron, AttributeWater, AttributeWind, AttributeFire, AttributeElectric}

// LevelInfinite is the sentinel tier with no HP cap and no defeat condition.
// It becomes the "current level" once levels 1-3 are all cleared.
const LevelInfinite = 999

// BossLevels lists the valid boss tiers.
var BossLevels = []int{1, 2, 3, LevelInfinite}

// Boss is one raid boss configured for a season.  HP is 0 for the infinite
// tier.  SortOrder is the client-assigned display position within the boss's
// level group, persisted so drag-reorder survives reloads.
type Boss struct {
	ID        int64     `json:"id"`
	SeasonID  int64     `json:"season_id"`
	Name      string    `json:"name"`
	Attribute string    `json:"attribute"`
	Level     int       `json:"level"`
	HP        int64     `json:"hp"`
	Mechanic  string    `json:"mechanic"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidAttribute reports whether s is one of the five boss attributes.
func ValidAttribute(s string) bool {
	for _, a := range Attributes {
		if a == s {
			return true
		}
	}
	return false
}

// ValidLevel reports whether l is a valid boss tier.
func ValidLevel(l int) bool {
	for _, v := range BossLevels {
		if v == l {
			return true
		}
	}
	return false
}
