package sessions

import (
	"context"
	"errors"

	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

var ErrNotFound = errors.New("session not found")

// Store persists session documents. There is no deletion path; ended
// sessions are retained for the activity log.
type Store interface {
	Create(ctx context.Context, session telemetry.Session) (telemetry.Session, error)
	List(ctx context.Context) ([]telemetry.Session, error)
	Update(ctx context.Context, id string, patch telemetry.SessionPatch) (telemetry.Session, error)
}

// applyPatch folds non-nil patch fields into the session.
func applyPatch(session telemetry.Session, patch telemetry.SessionPatch) telemetry.Session {
	if patch.UserID != nil {
		session.UserID = *patch.UserID
	}
	if patch.EndedAt != nil {
		session.EndedAt = patch.EndedAt
	}
	if patch.Activity != nil {
		session.Activity = append([]string(nil), (*patch.Activity)...)
	}
	return session
}
