package telemetry

import (
	"time"

	"github.com/radiantlabs/cyberboy/internal/model/chat"
)

// Activity kinds shown on the dashboard.
const (
	ActivityError   = "error"
	ActivityInfo    = "info"
	ActivitySuccess = "success"
)

// Bounds on the locally kept history.
const (
	MaxRecentActivity = 20
	MaxConversations  = 10
)

// Activity is one dashboard line derived from a recorded message.
type Activity struct {
	ID     string    `json:"id"`
	Action string    `json:"action"`
	Time   time.Time `json:"time"`
	Kind   string    `json:"type"`
}

// Conversation is a snapshot of a finished transcript.
type Conversation struct {
	ID           string         `json:"id"`
	Messages     []chat.Message `json:"messages"`
	MessageCount int            `json:"messageCount"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// UsageAggregate is the client-local usage summary. It persists under
// a single storage key and deliberately diverges from server Session
// documents.
type UsageAggregate struct {
	TotalQueries      int            `json:"totalQueries"`
	TotalMessages     int            `json:"totalMessages"`
	TotalUserMessages int            `json:"totalUserMessages"`
	TotalBotMessages  int            `json:"totalBotMessages"`
	Conversations     []Conversation `json:"conversations"`
	RecentActivity    []Activity     `json:"recentActivity"`
	LastUpdated       *time.Time     `json:"lastUpdated"`
}
