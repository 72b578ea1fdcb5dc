package utils

import (
	"reflect"
	"testing"
)

func TestParseTimeSlots(t *testing.T) {
	got, err := ParseTimeSlots("05:00-12:00,18:00-24:00")
	if err != nil {
		t.Fatal(err)
	}
	want := []HourRange{{Start: 5, End: 12}, {Start: 18, End: 24}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTimeSlotsEmpty(t *testing.T) {
	got, err := ParseTimeSlots("   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("empty schedule should parse to no ranges, got %v", got)
	}
}

func TestParseTimeSlotsRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"5am-noon",
		"05:00",
		"12:00-05:00", // reversed
		"05:00-05:00", // empty
		"05:30-06:00", // sub-hour
		"22:00-25:00", // past midnight
	} {
		if _, err := ParseTimeSlots(s); err == nil {
			t.Errorf("ParseTimeSlots(%q) should fail", s)
		}
	}
}

func TestFormatTimeSlotsRoundTrip(t *testing.T) {
	const in = "05:00-12:00,18:00-24:00"
	ranges, err := ParseTimeSlots(in)
	if err != nil {
		t.Fatal(err)
	}
	if out := FormatTimeSlots(ranges); out != in {
		t.Fatalf("round trip: got %q, want %q", out, in)
	}
}
