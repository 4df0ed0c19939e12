package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
	sessionHandler "github.com/radiantlabs/cyberboy/internal/server/handler/session"
	sessionService "github.com/radiantlabs/cyberboy/internal/server/service/session"
	"github.com/radiantlabs/cyberboy/internal/server/store/sessions"
)

func newTestRouter() chi.Router {
	r := chi.NewRouter()
	sessionHandler.New(sessionService.NewService(sessions.NewMemoryStore())).RegisterRoutes(r)
	return r
}

func TestHandleCreate(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions",
		strings.NewReader(`{"userId":"u1","activity":["User query: \"hello...\""]}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.UserID != "u1" {
		t.Fatalf("unexpected userId: %q", created.UserID)
	}
	if len(created.Activity) != 1 {
		t.Fatalf("unexpected activity: %v", created.Activity)
	}
	if created.StartedAt.IsZero() {
		t.Fatal("expected startedAt default")
	}
}

// A client-supplied sessionId never reuses an existing document; each
// post yields a fresh one.
func TestHandleCreateIgnoresSessionID(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"userId":"u1"}`)))
	var first telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions",
		strings.NewReader(`{"userId":"u1","sessionId":"`+first.ID+`"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var second telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&second); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new document per post")
	}
}

func TestHandleCreateMissingUserID(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"activity":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "userId is required") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleList(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"userId":"u1"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	var list []telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 session, got %d", len(list))
	}
}

func TestHandleUpdate(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"userId":"u1"}`)))
	var created telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/sessions/"+created.ID,
		strings.NewReader(`{"endedAt":"2026-08-30T12:00:00Z"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated telemetry.Session
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if updated.EndedAt == nil {
		t.Fatal("expected endedAt to be set")
	}
	if updated.UserID != "u1" {
		t.Fatalf("patch must not clear userId, got %q", updated.UserID)
	}
}

func TestHandleUpdateMissing(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/sessions/does-not-exist",
		strings.NewReader(`{"endedAt":"2026-08-30T12:00:00Z"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
