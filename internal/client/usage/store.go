package usage

import (
	"context"
	"encoding/json"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/radiantlabs/cyberboy/internal/client/localdata"
	"github.com/radiantlabs/cyberboy/internal/model/chat"
	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

// actionTextLimit caps how much of a user query appears in an
// activity line.
const actionTextLimit = 50

// ActivityPoster mirrors recorded messages to the backend, best
// effort. Satisfied by *backendapi.Client; nil disables posting.
type ActivityPoster interface {
	PostActivity(ctx context.Context, msg chat.Message) (telemetry.Session, error)
}

// Store maintains the locally persisted usage aggregate. Persistence
// failures are logged and swallowed: telemetry must never interrupt
// the chat path.
type Store struct {
	data    localdata.Store
	backend ActivityPoster
	now     func() time.Time
}

// NewStore builds a usage store over the given local data store. A
// nil poster skips the server-side mirror.
func NewStore(data localdata.Store, backend ActivityPoster) *Store {
	return &Store{data: data, backend: backend, now: time.Now}
}

// Read returns the stored aggregate, or a zero-valued one when the
// key is absent or the payload does not parse.
func (s *Store) Read() telemetry.UsageAggregate {
	raw, ok, err := s.data.Get(localdata.KeyUsage)
	if err != nil {
		log.Printf("[usage] read failed: %v", err)
		return zeroAggregate()
	}
	if !ok {
		return zeroAggregate()
	}

	var agg telemetry.UsageAggregate
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		log.Printf("[usage] discarding corrupt aggregate: %v", err)
		return zeroAggregate()
	}
	return agg
}

// Write persists the aggregate. Failures are logged, never returned.
func (s *Store) Write(agg telemetry.UsageAggregate) {
	raw, err := json.Marshal(agg)
	if err != nil {
		log.Printf("[usage] encode failed: %v", err)
		return
	}
	if err := s.data.Set(localdata.KeyUsage, string(raw)); err != nil {
		log.Printf("[usage] write failed: %v", err)
	}
}

// RecordMessage folds one transcript message into the aggregate,
// persists it, and best-effort mirrors it to the backend. The updated
// aggregate is returned.
func (s *Store) RecordMessage(ctx context.Context, msg chat.Message) telemetry.UsageAggregate {
	agg := s.Read()

	agg.TotalMessages++
	if msg.Sender == chat.SenderUser {
		agg.TotalUserMessages++
		agg.TotalQueries++
	} else {
		agg.TotalBotMessages++
	}

	now := s.now()
	entry := telemetry.Activity{
		ID:     uuid.NewString(),
		Action: actionFor(msg),
		Time:   now,
		Kind:   kindFor(msg),
	}
	agg.RecentActivity = append([]telemetry.Activity{entry}, agg.RecentActivity...)
	if len(agg.RecentActivity) > telemetry.MaxRecentActivity {
		agg.RecentActivity = agg.RecentActivity[:telemetry.MaxRecentActivity]
	}
	agg.LastUpdated = &now

	s.Write(agg)

	if s.backend != nil {
		if _, err := s.backend.PostActivity(ctx, msg); err != nil {
			log.Printf("[usage] session post failed: %v", err)
		}
	}

	return agg
}

// RecordConversation snapshots a finished transcript into the bounded
// conversation history.
func (s *Store) RecordConversation(messages []chat.Message) telemetry.UsageAggregate {
	agg := s.Read()

	conversation := telemetry.Conversation{
		ID:           uuid.NewString(),
		Messages:     append([]chat.Message(nil), messages...),
		MessageCount: len(messages),
		CreatedAt:    s.now(),
	}
	agg.Conversations = append([]telemetry.Conversation{conversation}, agg.Conversations...)
	if len(agg.Conversations) > telemetry.MaxConversations {
		agg.Conversations = agg.Conversations[:telemetry.MaxConversations]
	}

	s.Write(agg)
	return agg
}

func zeroAggregate() telemetry.UsageAggregate {
	return telemetry.UsageAggregate{
		Conversations:  []telemetry.Conversation{},
		RecentActivity: []telemetry.Activity{},
	}
}

func actionFor(msg chat.Message) string {
	if msg.Sender == chat.SenderUser {
		text := msg.Text
		if utf8.RuneCountInString(text) > actionTextLimit {
			text = string([]rune(text)[:actionTextLimit]) + "..."
		}
		return `User query: "` + text + `"`
	}
	return "Cyber Boy responded"
}

func kindFor(msg chat.Message) string {
	switch {
	case msg.IsError:
		return telemetry.ActivityError
	case msg.Sender == chat.SenderUser:
		return telemetry.ActivityInfo
	default:
		return telemetry.ActivitySuccess
	}
}
