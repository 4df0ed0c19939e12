package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/radiantlabs/cyberboy/internal/model/account"
	"github.com/radiantlabs/cyberboy/internal/server/store/users"
)

func TestMemoryStoreCreateAndFind(t *testing.T) {
	store := users.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, account.User{Email: "a@b.c", Password: "hash"})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	found, err := store.FindByEmail(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("FindByEmail err: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("unexpected id: got %s want %s", found.ID, created.ID)
	}
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	store := users.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, account.User{Email: "a@b.c"}); err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if _, err := store.Create(ctx, account.User{Email: "a@b.c"}); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := users.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, account.User{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := store.FindByEmail(ctx, "a@b.c"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
