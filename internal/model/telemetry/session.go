package telemetry

import "time"

// Session is the server-side activity document: a user identifier, a
// time window, and an ordered list of activity strings. One document
// is created per recorded message; the client aggregate is never
// reconciled with these records.
type Session struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"userId"`
	StartedAt time.Time  `json:"startedAt" bson:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	Activity  []string   `json:"activity" bson:"activity"`
}

// SessionPatch is a partial update; nil fields are left untouched.
type SessionPatch struct {
	UserID   *string    `json:"userId"`
	EndedAt  *time.Time `json:"endedAt"`
	Activity *[]string  `json:"activity"`
}
