package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
)

type fakeScheduleStore struct {
	rows   map[int64]model.MemberSchedule
	roster map[int64]bool
	nextID int64
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{
		rows:   map[int64]model.MemberSchedule{},
		roster: map[int64]bool{3: true},
	}
}

func (f *fakeScheduleStore) ListBySeason(_ context.Context, seasonID int64) ([]model.MemberSchedule, error) {
	out := []model.MemberSchedule{}
	for _, s := range f.rows {
		if s.SeasonID == seasonID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) Upsert(_ context.Context, s *model.MemberSchedule, _ int64) error {
	if !f.roster[s.MemberID] {
		return repository.ErrNotFound
	}
	for id, existing := range f.rows {
		if existing.MemberID == s.MemberID && existing.SeasonID == s.SeasonID {
			s.ID = id
			f.rows[id] = *s
			return nil
		}
	}
	f.nextID++
	s.ID = f.nextID
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeScheduleStore) SoftDelete(_ context.Context, id, _ int64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func TestSaveScheduleUpserts(t *testing.T) {
	store := newFakeScheduleStore()
	h := NewScheduleHandler(store, &fakeOwner{}, &fakeEvents{})

	c, rec := newJSONContext(t, http.MethodPost, "/member-schedules",
		`{"unionId":7,"seasonId":1,"memberId":3,"timeSlots":"05:00-12:00,18:00-24:00"}`)
	if err := h.Save(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Saving again for the same (member, season) overwrites the single row.
	c, rec = newJSONContext(t, http.MethodPut, "/member-schedules",
		`{"unionId":7,"seasonId":1,"memberId":3,"timeSlots":"06:00-08:00"}`)
	if err := h.Save(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("second save status = %d, want 200", rec.Code)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one schedule row, got %d", len(store.rows))
	}
	for _, s := range store.rows {
		if s.TimeSlots != "06:00-08:00" {
			t.Fatalf("row not overwritten: %q", s.TimeSlots)
		}
	}
}

func TestSaveScheduleEmptySlotsAllowed(t *testing.T) {
	h := NewScheduleHandler(newFakeScheduleStore(), &fakeOwner{}, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/member-schedules",
		`{"unionId":7,"seasonId":1,"memberId":3,"timeSlots":""}`)

	if err := h.Save(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

// The store validates the member reference as part of the upsert, so a
// schedule can never attach to a member of another season or union.
func TestSaveScheduleUnknownMember(t *testing.T) {
	store := newFakeScheduleStore()
	h := NewScheduleHandler(store, &fakeOwner{}, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/member-schedules",
		`{"unionId":7,"seasonId":1,"memberId":99,"timeSlots":"05:00-06:00"}`)

	if err := h.Save(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(store.rows) != 0 {
		t.Fatal("schedule stored for a member outside the roster")
	}
}

func TestSaveScheduleRejectsMalformedSlots(t *testing.T) {
	h := NewScheduleHandler(newFakeScheduleStore(), &fakeOwner{}, nil)
	for _, slots := range []string{"5am-noon", "12:00-05:00", "05:30-06:00"} {
		c, rec := newJSONContext(t, http.MethodPost, "/member-schedules",
			`{"unionId":7,"seasonId":1,"memberId":3,"timeSlots":"`+slots+`"}`)
		if err := h.Save(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("slots %q: status = %d, want 400", slots, rec.Code)
		}
	}
}

func TestListSchedulesChecksOwnership(t *testing.T) {
	h := NewScheduleHandler(newFakeScheduleStore(), &fakeOwner{err: repository.ErrForbidden}, nil)
	c, rec := newJSONContext(t, http.MethodGet, "/member-schedules?unionId=7&seasonId=2", "")

	if err := h.List(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRemoveSchedule(t *testing.T) {
	store := newFakeScheduleStore()
	store.rows[4] = model.MemberSchedule{ID: 4, MemberID: 3, SeasonID: 1, TimeSlots: "05:00-06:00"}
	h := NewScheduleHandler(store, &fakeOwner{}, &fakeEvents{})
	c, rec := newJSONContext(t, http.MethodDelete, "/member-schedules?id=4&unionId=7", "")

	if err := h.Remove(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.rows) != 0 {
		t.Fatal("schedule not removed")
	}
}
