package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
)

type fakeSeasonStore struct {
	created     *model.Season
	copiedFrom  int64
	activated   int64
	deactivated int64
	deleted     int64
	err         error
}

func (f *fakeSeasonStore) Create(_ context.Context, s *model.Season, copyFromSeason int64) error {
	if f.err != nil {
		return f.err
	}
	s.ID = 11
	f.created = s
	f.copiedFrom = copyFromSeason
	return nil
}

func (f *fakeSeasonStore) Activate(_ context.Context, id, _ int64) error {
	f.activated = id
	return f.err
}

func (f *fakeSeasonStore) Deactivate(_ context.Context, id, _ int64) error {
	f.deactivated = id
	return f.err
}

func (f *fakeSeasonStore) Delete(_ context.Context, id, _ int64) error {
	f.deleted = id
	return f.err
}

func TestCreateSeasonWithMemberCopy(t *testing.T) {
	store := &fakeSeasonStore{}
	events := &fakeEvents{}
	h := NewSeasonHandler(store, events)
	c, rec := newJSONContext(t, http.MethodPost, "/seasons",
		`{"unionId":7,"name":"autumn","date":"2026-09-01","copyFromSeason":10}`)

	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.created == nil || store.created.Name != "autumn" || store.copiedFrom != 10 {
		t.Fatalf("unexpected create: %+v copiedFrom=%d", store.created, store.copiedFrom)
	}
	evs := events.all()
	if len(evs) != 1 || evs[0].Entity != queue.EntitySeason || evs[0].Action != queue.ActionInsert {
		t.Fatalf("expected season insert event, got %v", evs)
	}
}

func TestCreateSeasonForeignCopySource(t *testing.T) {
	h := NewSeasonHandler(&fakeSeasonStore{err: repository.ErrForbidden}, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/seasons",
		`{"unionId":7,"name":"autumn","date":"2026-09-01","copyFromSeason":999}`)

	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpdateSeasonActivates(t *testing.T) {
	store := &fakeSeasonStore{}
	h := NewSeasonHandler(store, &fakeEvents{})
	c, rec := newJSONContext(t, http.MethodPut, "/seasons", `{"unionId":7,"seasonId":3,"isActive":true}`)

	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.activated != 3 || store.deactivated != 0 {
		t.Fatalf("expected activate(3), got activate=%d deactivate=%d", store.activated, store.deactivated)
	}
}

func TestUpdateSeasonDeactivates(t *testing.T) {
	store := &fakeSeasonStore{}
	h := NewSeasonHandler(store, &fakeEvents{})
	c, rec := newJSONContext(t, http.MethodPut, "/seasons", `{"unionId":7,"seasonId":3,"isActive":false}`)

	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.deactivated != 3 || store.activated != 0 {
		t.Fatalf("expected deactivate(3), got activate=%d deactivate=%d", store.activated, store.deactivated)
	}
}

func TestDeleteSeason(t *testing.T) {
	store := &fakeSeasonStore{}
	h := NewSeasonHandler(store, &fakeEvents{})
	c, rec := newJSONContext(t, http.MethodDelete, "/seasons?id=3&unionId=7", "")

	if err := h.Delete(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.deleted != 3 {
		t.Fatalf("expected delete(3), got %d", store.deleted)
	}
}
