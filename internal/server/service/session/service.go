package session

import (
	"context"
	"errors"
	"time"

	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
	"github.com/radiantlabs/cyberboy/internal/server/store/sessions"
)

var (
	ErrUserIDRequired = errors.New("userId is required")
	ErrNotFound       = sessions.ErrNotFound
)

// CreatePayload is the wire shape accepted by the create operation.
// SessionID is accepted and ignored: every post creates a new
// document, matching the observed telemetry granularity.
type CreatePayload struct {
	UserID    string     `json:"userId"`
	StartedAt *time.Time `json:"startedAt"`
	Activity  []string   `json:"activity"`
	SessionID string     `json:"sessionId"`
}

// Service validates and persists session documents.
type Service struct {
	sessions sessions.Store
}

// NewService constructs a session service over the given store.
func NewService(store sessions.Store) *Service {
	return &Service{sessions: store}
}

// Create validates the payload and persists a new session.
func (s *Service) Create(ctx context.Context, payload CreatePayload) (telemetry.Session, error) {
	if payload.UserID == "" {
		return telemetry.Session{}, ErrUserIDRequired
	}

	session := telemetry.Session{
		UserID:   payload.UserID,
		Activity: payload.Activity,
	}
	if payload.StartedAt != nil {
		session.StartedAt = *payload.StartedAt
	}

	return s.sessions.Create(ctx, session)
}

// List returns every stored session, unpaginated.
func (s *Service) List(ctx context.Context) ([]telemetry.Session, error) {
	return s.sessions.List(ctx)
}

// Update applies a partial update, typically setting endedAt.
func (s *Service) Update(ctx context.Context, id string, patch telemetry.SessionPatch) (telemetry.Session, error) {
	return s.sessions.Update(ctx, id, patch)
}
