package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
)

type fakeDataSeasonStore struct {
	owners  map[int64]int64 // seasonID -> unionID
	seasons []model.Season
}

func (f *fakeDataSeasonStore) CheckOwner(_ context.Context, seasonID, unionID int64) error {
	owner, ok := f.owners[seasonID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner != unionID {
		return repository.ErrForbidden
	}
	return nil
}

func (f *fakeDataSeasonStore) ListByUnion(_ context.Context, unionID int64) ([]model.Season, error) {
	out := []model.Season{}
	for _, s := range f.seasons {
		if s.UnionID == unionID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSyncStore struct {
	snap     *model.SnapshotPayload
	delta    *model.DeltaPayload
	lastSync time.Time
}

func (f *fakeSyncStore) Snapshot(_ context.Context, _ int64) (*model.SnapshotPayload, error) {
	return f.snap, nil
}

func (f *fakeSyncStore) Delta(_ context.Context, _ int64, lastSync time.Time) (*model.DeltaPayload, error) {
	f.lastSync = lastSync
	return f.delta, nil
}

func newDataHandlerFixture() (*DataHandler, *fakeSyncStore) {
	seasons := &fakeDataSeasonStore{
		owners: map[int64]int64{1: 7, 2: 8},
		seasons: []model.Season{
			{ID: 1, UnionID: 7, Name: "summer", MemberCount: 3},
		},
	}
	sync := &fakeSyncStore{
		snap: &model.SnapshotPayload{
			Members:   []model.Member{{ID: 1, SeasonID: 1, Name: "alice"}},
			Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		delta: &model.DeltaPayload{
			Members:   model.MemberDelta{Updated: []model.Member{}, Deleted: []int64{42}},
			Timestamp: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	return NewDataHandler(seasons, sync), sync
}

func TestFetchSeasonList(t *testing.T) {
	h, _ := newDataHandlerFixture()
	c, rec := newJSONContext(t, http.MethodGet, "/data?unionId=7", "")

	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	seasons, ok := body["seasons"].([]any)
	if !ok || len(seasons) != 1 {
		t.Fatalf("expected one season, got %v", body)
	}
}

func TestFetchSnapshot(t *testing.T) {
	h, _ := newDataHandlerFixture()
	c, rec := newJSONContext(t, http.MethodGet, "/data?unionId=7&seasonId=1", "")

	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["timestamp"]; !ok {
		t.Fatalf("snapshot must carry a timestamp: %v", body)
	}
	if _, ok := body["members"]; !ok {
		t.Fatalf("snapshot must carry members: %v", body)
	}
}

func TestFetchDelta(t *testing.T) {
	h, sync := newDataHandlerFixture()
	c, rec := newJSONContext(t, http.MethodGet, "/data?unionId=7&seasonId=1&lastSync=2026-08-01T12:00:00Z", "")

	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if !sync.lastSync.Equal(want) {
		t.Fatalf("lastSync passed to store = %v, want %v", sync.lastSync, want)
	}
	body := decodeBody(t, rec)
	members, ok := body["members"].(map[string]any)
	if !ok {
		t.Fatalf("delta members missing: %v", body)
	}
	deleted, ok := members["deleted"].([]any)
	if !ok || len(deleted) != 1 || deleted[0] != float64(42) {
		t.Fatalf("expected deleted=[42], got %v", members)
	}
}

func TestFetchBadLastSync(t *testing.T) {
	h, _ := newDataHandlerFixture()
	c, rec := newJSONContext(t, http.MethodGet, "/data?unionId=7&seasonId=1&lastSync=yesterday", "")

	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// A season owned by another union is forbidden even with a valid id, and a
// missing season is indistinguishable from one the caller cannot see.
func TestFetchForeignSeason(t *testing.T) {
	h, _ := newDataHandlerFixture()

	c, rec := newJSONContext(t, http.MethodGet, "/data?unionId=7&seasonId=2", "")
	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign season: status = %d, want 403", rec.Code)
	}

	c, rec = newJSONContext(t, http.MethodGet, "/data?unionId=7&seasonId=99", "")
	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("absent season: status = %d, want 404", rec.Code)
	}
}

func TestFetchMissingUnionID(t *testing.T) {
	h, _ := newDataHandlerFixture()
	c, rec := newJSONContext(t, http.MethodGet, "/data", "")

	if err := h.Fetch(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
