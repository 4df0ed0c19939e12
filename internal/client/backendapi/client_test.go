package backendapi_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/radiantlabs/cyberboy/internal/client/backendapi"
	"github.com/radiantlabs/cyberboy/internal/client/localdata"
	"github.com/radiantlabs/cyberboy/internal/model/chat"
	"github.com/radiantlabs/cyberboy/internal/server/handler"
	authService "github.com/radiantlabs/cyberboy/internal/server/service/auth"
	sessionService "github.com/radiantlabs/cyberboy/internal/server/service/session"
	"github.com/radiantlabs/cyberboy/internal/server/store/sessions"
	"github.com/radiantlabs/cyberboy/internal/server/store/users"
)

// startBackend runs the real router over in-memory stores so client
// tests exercise the actual wire contract.
func startBackend(t *testing.T) (*httptest.Server, sessions.Store) {
	t.Helper()
	sessionStore := sessions.NewMemoryStore()
	srv := httptest.NewServer(handler.NewRouter(
		authService.NewService(users.NewMemoryStore()),
		sessionService.NewService(sessionStore),
	))
	t.Cleanup(srv.Close)
	return srv, sessionStore
}

func TestRegisterAndLoginFlow(t *testing.T) {
	srv, _ := startBackend(t)
	local := localdata.NewMemoryStore()
	client := backendapi.New(srv.URL, local)
	ctx := context.Background()

	created, err := client.Register(ctx, "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if created.Email != "a@b.c" {
		t.Fatalf("unexpected identity: %+v", created)
	}
	if _, ok := client.StoredIdentity(); ok {
		t.Fatal("register alone must not store an identity")
	}

	logged, err := client.Login(ctx, "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatalf("unexpected id: got %s want %s", logged.ID, created.ID)
	}

	identity, ok := client.StoredIdentity()
	if !ok || identity.ID != created.ID {
		t.Fatalf("stored identity = %+v ok=%v", identity, ok)
	}
	if id, ok, _ := local.Get(localdata.KeySessionID); !ok || id == "" {
		t.Fatal("login must open and store a session id")
	}
}

func TestLoginRejected(t *testing.T) {
	srv, _ := startBackend(t)
	client := backendapi.New(srv.URL, localdata.NewMemoryStore())

	_, err := client.Login(context.Background(), "nobody@b.c", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected server message surfaced, got %v", err)
	}
}

func TestPostActivityAnonymousFallback(t *testing.T) {
	srv, sessionStore := startBackend(t)
	client := backendapi.New(srv.URL, localdata.NewMemoryStore())

	session, err := client.PostActivity(context.Background(), chat.Message{Text: "hello", Sender: chat.SenderUser})
	if err != nil {
		t.Fatalf("PostActivity err: %v", err)
	}
	if session.UserID != "anonymous" {
		t.Fatalf("userId = %q, want anonymous", session.UserID)
	}
	if len(session.Activity) != 1 || session.Activity[0] != "hello" {
		t.Fatalf("activity = %v", session.Activity)
	}

	list, err := sessionStore.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("stored sessions = %d err=%v", len(list), err)
	}
}

func TestPostActivityKeepsFirstSessionID(t *testing.T) {
	srv, _ := startBackend(t)
	local := localdata.NewMemoryStore()
	client := backendapi.New(srv.URL, local)
	ctx := context.Background()

	first, err := client.PostActivity(ctx, chat.Message{Text: "one", Sender: chat.SenderUser})
	if err != nil {
		t.Fatalf("PostActivity err: %v", err)
	}

	stored, ok, _ := local.Get(localdata.KeySessionID)
	if !ok || stored != first.ID {
		t.Fatalf("stored session id = %q, want %q", stored, first.ID)
	}

	if _, err := client.PostActivity(ctx, chat.Message{Text: "two", Sender: chat.SenderBot}); err != nil {
		t.Fatalf("PostActivity err: %v", err)
	}
	stored, _, _ = local.Get(localdata.KeySessionID)
	if stored != first.ID {
		t.Fatalf("later posts must not replace the stored id, got %q", stored)
	}
}

func TestLogoutClearsState(t *testing.T) {
	srv, sessionStore := startBackend(t)
	local := localdata.NewMemoryStore()
	client := backendapi.New(srv.URL, local)
	ctx := context.Background()

	if _, err := client.Register(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if _, err := client.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	client.Logout(ctx)

	if _, ok := client.StoredIdentity(); ok {
		t.Fatal("logout must clear the stored identity")
	}
	if _, ok, _ := local.Get(localdata.KeySessionID); ok {
		t.Fatal("logout must clear the stored session id")
	}

	list, err := sessionStore.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("stored sessions = %d err=%v", len(list), err)
	}
	if list[0].EndedAt == nil {
		t.Fatal("logout must set endedAt on the login session")
	}
}

func TestDeleteAccount(t *testing.T) {
	srv, _ := startBackend(t)
	local := localdata.NewMemoryStore()
	client := backendapi.New(srv.URL, local)
	ctx := context.Background()

	if _, err := client.Register(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if _, err := client.Login(ctx, "a@b.c", "secret"); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	if err := client.DeleteAccount(ctx); err != nil {
		t.Fatalf("DeleteAccount err: %v", err)
	}
	if _, ok := client.StoredIdentity(); ok {
		t.Fatal("delete must clear the stored identity")
	}

	if _, err := client.Login(ctx, "a@b.c", "secret"); err == nil {
		t.Fatal("expected login to fail after account deletion")
	}
}

func TestDeleteAccountWithoutIdentity(t *testing.T) {
	srv, _ := startBackend(t)
	client := backendapi.New(srv.URL, localdata.NewMemoryStore())

	if err := client.DeleteAccount(context.Background()); err == nil {
		t.Fatal("expected error without a stored identity")
	}
}
