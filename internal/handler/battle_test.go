package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
)

type fakeOwner struct{ err error }

func (f *fakeOwner) CheckOwner(_ context.Context, _, _ int64) error { return f.err }

type fakeMemberChecker struct{ roster map[string]bool }

func (f *fakeMemberChecker) ExistsByName(_ context.Context, _ int64, name string) (bool, error) {
	return f.roster[name], nil
}

type fakeRaidStore struct {
	created *model.RaidBattle
	at      time.Time
	err     error
}

func (f *fakeRaidStore) Create(_ context.Context, b *model.RaidBattle, _ int64, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	b.ID = 1
	b.Timestamp = at
	f.created = b
	f.at = at
	return nil
}

func (f *fakeRaidStore) SoftDelete(_ context.Context, _, _ int64) error { return f.err }

type fakeMockStore struct {
	created *model.MockBattle
	err     error
}

func (f *fakeMockStore) Create(_ context.Context, b *model.MockBattle, _ int64) error {
	if f.err != nil {
		return f.err
	}
	b.ID = 1
	f.created = b
	return nil
}

func (f *fakeMockStore) SoftDelete(_ context.Context, _, _ int64) error { return f.err }

func raidHandler(store *fakeRaidStore) *RaidBattleHandler {
	return NewRaidBattleHandler(store,
		&fakeMemberChecker{roster: map[string]bool{"alice": true}},
		&fakeOwner{}, &fakeEvents{}, time.UTC)
}

const raidBody = `{"unionId":7,"seasonId":1,"memberName":"alice","level":1,"bossId":3,"deckComposition":"b1","damage":600}`

func TestRecordRaidBattle(t *testing.T) {
	store := &fakeRaidStore{}
	h := raidHandler(store)
	c, rec := newJSONContext(t, http.MethodPost, "/raid-battles", raidBody)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.created == nil || store.created.Damage != 600 || store.created.MemberName != "alice" {
		t.Fatalf("unexpected stored battle: %+v", store.created)
	}
	if store.at.IsZero() {
		t.Fatal("attempt timestamp was not passed to the store")
	}
}

func TestRecordRaidBattleDeckSpent(t *testing.T) {
	h := raidHandler(&fakeRaidStore{err: repository.ErrDeckLimit})
	c, rec := newJSONContext(t, http.MethodPost, "/raid-battles", raidBody)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRecordRaidBattleUnknownMember(t *testing.T) {
	h := raidHandler(&fakeRaidStore{})
	c, rec := newJSONContext(t, http.MethodPost, "/raid-battles",
		`{"unionId":7,"seasonId":1,"memberName":"ghost","level":1,"bossId":3,"damage":600}`)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// The store re-resolves the member row under lock when inserting, so a
// member removed between the roster check and the insert comes back as
// ErrNotFound from Create rather than a stray deck-limit error.
func TestRecordRaidBattleMemberRemovedMidFlight(t *testing.T) {
	h := raidHandler(&fakeRaidStore{err: repository.ErrNotFound})
	c, rec := newJSONContext(t, http.MethodPost, "/raid-battles", raidBody)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecordRaidBattleForeignSeason(t *testing.T) {
	h := NewRaidBattleHandler(&fakeRaidStore{},
		&fakeMemberChecker{roster: map[string]bool{"alice": true}},
		&fakeOwner{err: repository.ErrForbidden}, nil, time.UTC)
	c, rec := newJSONContext(t, http.MethodPost, "/raid-battles", raidBody)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRecordRaidBattleRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"zero damage":   `{"unionId":7,"seasonId":1,"memberName":"alice","level":1,"bossId":3,"damage":0}`,
		"invalid level": `{"unionId":7,"seasonId":1,"memberName":"alice","level":4,"bossId":3,"damage":600}`,
		"no member":     `{"unionId":7,"seasonId":1,"level":1,"bossId":3,"damage":600}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			h := raidHandler(&fakeRaidStore{})
			c, rec := newJSONContext(t, http.MethodPost, "/raid-battles", body)
			if err := h.Record(c); err != nil {
				t.Fatal(err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRecordMockBattle(t *testing.T) {
	store := &fakeMockStore{}
	h := NewMockBattleHandler(store,
		&fakeMemberChecker{roster: map[string]bool{"alice": true}},
		&fakeOwner{}, &fakeEvents{})
	c, rec := newJSONContext(t, http.MethodPost, "/mock-battles",
		`{"unionId":7,"seasonId":1,"memberName":"alice","bossId":3,"deckComposition":"b1","damage":450}`)

	if err := h.Record(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.created == nil || store.created.Damage != 450 {
		t.Fatalf("unexpected stored battle: %+v", store.created)
	}
}

func TestRemoveRaidBattle(t *testing.T) {
	h := raidHandler(&fakeRaidStore{})
	c, rec := newJSONContext(t, http.MethodDelete, "/raid-battles?id=9&unionId=7", "")

	if err := h.Remove(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRemoveRaidBattleTwice(t *testing.T) {
	h := raidHandler(&fakeRaidStore{err: repository.ErrNotFound})
	c, rec := newJSONContext(t, http.MethodDelete, "/raid-battles?id=9&unionId=7", "")

	if err := h.Remove(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
