package chat

import "time"

// Sender values for transcript messages.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is a single transcript turn. The transcript lives in memory
// only; restarting the client starts a fresh conversation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	IsError   bool      `json:"isError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
