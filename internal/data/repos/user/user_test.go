package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/chanotech/chanote-backend/internal/data/repos/testutil"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{
			ID:        uuid.New(),
			Email:     "userrepo@example.com",
			Password:  "pw",
			FirstName: "Somchai",
			LastName:  "J",
			Role:      types.RoleCustomer,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 user, got %d", len(created))
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != created[0].Email {
		t.Fatalf("GetByID: unexpected email %q", got.Email)
	}

	byEmail, err := repo.GetByEmail(dbc, created[0].Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created[0].ID {
		t.Fatalf("GetByEmail: unexpected id %s", byEmail.ID)
	}

	exists, err := repo.EmailExists(dbc, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	if err := repo.UpdateProfile(dbc, created[0].ID, map[string]interface{}{
		"phone":   "0812345678",
		"address": "Sriracha, Chonburi",
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, err = repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Phone != "0812345678" {
		t.Fatalf("UpdateProfile: phone not persisted: %q", got.Phone)
	}
}
