package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/iliyamo/union-raid-tracker/internal/model"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
	"github.com/iliyamo/union-raid-tracker/internal/utils"
)

type fakeUnionAdminStore struct {
	unions  map[int64]*model.Union
	nextID  int64
	updated struct {
		name          *string
		isActive      *bool
		userPassword  *string
		adminPassword *string
	}
}

func newFakeUnionAdminStore() *fakeUnionAdminStore {
	return &fakeUnionAdminStore{unions: map[int64]*model.Union{}}
}

func (f *fakeUnionAdminStore) List(_ context.Context) ([]model.Union, error) {
	out := []model.Union{}
	for _, u := range f.unions {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUnionAdminStore) Create(_ context.Context, u *model.Union) error {
	for _, existing := range f.unions {
		if existing.Name == u.Name {
			return repository.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	f.unions[u.ID] = u
	return nil
}

func (f *fakeUnionAdminStore) Update(_ context.Context, id int64, name *string, isActive *bool, userPassword, adminPassword *string) error {
	if _, ok := f.unions[id]; !ok {
		return repository.ErrNotFound
	}
	f.updated.name = name
	f.updated.isActive = isActive
	f.updated.userPassword = userPassword
	f.updated.adminPassword = adminPassword
	return nil
}

func (f *fakeUnionAdminStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.unions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.unions, id)
	return nil
}

func TestListUnionsIncludesStats(t *testing.T) {
	store := newFakeUnionAdminStore()
	store.unions[1] = &model.Union{ID: 1, Name: "Nikke", SeasonCount: 3, MemberCount: 28}
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodGet, "/unions", "")

	if err := h.List(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	unions, ok := body["unions"].([]any)
	if !ok || len(unions) != 1 {
		t.Fatalf("unexpected union list: %v", body["unions"])
	}
	u := unions[0].(map[string]any)
	if u["seasonCount"] != float64(3) || u["memberCount"] != float64(28) {
		t.Fatalf("stats missing from list row: %v", u)
	}
}

func TestCreateUnionHashesSecrets(t *testing.T) {
	store := newFakeUnionAdminStore()
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodPost, "/unions",
		`{"name":"Nikke","userPassword":"member-pass","adminPassword":"admin-pass"}`)

	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	u := store.unions[1]
	if u == nil {
		t.Fatal("union not stored")
	}
	if u.UserPassword == "member-pass" || u.AdminPassword == "admin-pass" {
		t.Fatal("secrets stored in the clear")
	}
	if !utils.VerifySecret(u.UserPassword, "member-pass") || !utils.VerifySecret(u.AdminPassword, "admin-pass") {
		t.Fatal("stored hashes do not verify against the original secrets")
	}
}

func TestCreateUnionDuplicateName(t *testing.T) {
	store := newFakeUnionAdminStore()
	store.unions[1] = &model.Union{ID: 1, Name: "Nikke"}
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodPost, "/unions",
		`{"name":"Nikke","userPassword":"aaaa","adminPassword":"bbbb"}`)

	if err := h.Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateUnionPartial(t *testing.T) {
	store := newFakeUnionAdminStore()
	store.unions[1] = &model.Union{ID: 1, Name: "Nikke"}
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodPut, "/unions", `{"id":1,"isActive":false}`)

	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.updated.isActive == nil || *store.updated.isActive != false {
		t.Fatal("isActive not passed through")
	}
	if store.updated.name != nil || store.updated.userPassword != nil || store.updated.adminPassword != nil {
		t.Fatal("absent fields must stay nil")
	}
}

func TestUpdateUnionRehashesPassword(t *testing.T) {
	store := newFakeUnionAdminStore()
	store.unions[1] = &model.Union{ID: 1, Name: "Nikke"}
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodPut, "/unions", `{"id":1,"adminPassword":"new-secret"}`)

	if err := h.Update(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.updated.adminPassword == nil || !utils.VerifySecret(*store.updated.adminPassword, "new-secret") {
		t.Fatal("admin password not rehashed")
	}
}

func TestDeleteUnion(t *testing.T) {
	store := newFakeUnionAdminStore()
	store.unions[1] = &model.Union{ID: 1, Name: "Nikke"}
	h := NewUnionAdminHandler(store, 4)
	c, rec := newJSONContext(t, http.MethodDelete, "/unions?id=1", "")

	if err := h.Delete(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.unions) != 0 {
		t.Fatal("union not deleted")
	}
}
