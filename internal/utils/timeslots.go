package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// HourRange is one contiguous availability window within a day, measured in
// whole hours.  Start is inclusive, End exclusive; End may be 24.
type HourRange struct {
	Start int
	End   int
}

// ParseTimeSlots parses the serialized schedule format used by
// member_schedules.time_slots: comma-separated "HH:00-HH:00" ranges, e.g.
// "05:00-12:00,18:00-24:00".  An empty string is a valid empty schedule.
// Ranges must be well-formed and non-empty; overlap between ranges is
// allowed and handled by the availability histogram.
func ParseTimeSlots(s string) ([]HourRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []HourRange{}, nil
	}
	parts := strings.Split(s, ",")
	ranges := make([]HourRange, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		bounds := strings.Split(p, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid time slot %q", p)
		}
		start, err := parseHour(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("invalid time slot %q: %v", p, err)
		}
		end, err := parseHour(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("invalid time slot %q: %v", p, err)
		}
		if start >= end || start < 0 || end > 24 {
			return nil, fmt.Errorf("invalid time slot %q: empty or reversed range", p)
		}
		ranges = append(ranges, HourRange{Start: start, End: end})
	}
	return ranges, nil
}

// parseHour accepts "H:00" or "HH:00" and returns the hour.  24:00 is valid
// only as a range end, which ParseTimeSlots enforces through its bounds
// check.
func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	hm := strings.Split(s, ":")
	if len(hm) != 2 || hm[1] != "00" {
		return 0, fmt.Errorf("expected HH:00, got %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("bad hour %q", hm[0])
	}
	return h, nil
}

// FormatTimeSlots renders ranges back to the serialized form.
func FormatTimeSlots(ranges []HourRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, fmt.Sprintf("%02d:00-%02d:00", r.Start, r.End))
	}
	return strings.Join(parts, ",")
}
