package transcript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radiantlabs/cyberboy/internal/model/chat"
	"github.com/radiantlabs/cyberboy/internal/model/telemetry"
)

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrBusy         = errors.New("a submission is already in flight")
)

// welcomeText seeds every fresh transcript.
const welcomeText = "Welcome to the Cyber Boy interface. I am your neural assistant. " +
	"How can I help you today?"

const defaultRevealInterval = 5 * time.Millisecond

// Generator produces the assistant reply for a submitted message.
// Satisfied by *ai.Service; tests plug in a stub.
type Generator interface {
	Generate(ctx context.Context, history []chat.Message, userMessage string) (string, error)
}

// Recorder mirrors transcript events into the local usage aggregate
// (which in turn posts session activity). Satisfied by *usage.Store.
type Recorder interface {
	RecordMessage(ctx context.Context, msg chat.Message) telemetry.UsageAggregate
	RecordConversation(messages []chat.Message) telemetry.UsageAggregate
}

// Options tunes a Controller.
type Options struct {
	// RevealInterval is the delay between reveal ticks; zero picks
	// the default.
	RevealInterval time.Duration
	// OnDelta, when set, observes the revealed message after every
	// tick. Called without the controller lock held.
	OnDelta func(msg chat.Message)
}

// Controller owns the in-memory transcript and drives one exchange at
// a time: append the user turn, mirror it best-effort, ask the model,
// then reveal the reply incrementally. At most one reveal task is
// ever active.
type Controller struct {
	generator Generator
	recorder  Recorder
	interval  time.Duration
	onDelta   func(msg chat.Message)

	mu       sync.Mutex
	messages []chat.Message
	active   *Task
	busy     bool
	closed   bool
}

// New builds a controller seeded with the welcome message.
func New(generator Generator, recorder Recorder, opts Options) *Controller {
	interval := opts.RevealInterval
	if interval <= 0 {
		interval = defaultRevealInterval
	}

	return &Controller{
		generator: generator,
		recorder:  recorder,
		interval:  interval,
		onDelta:   opts.OnDelta,
		messages:  seedMessages(),
	}
}

func seedMessages() []chat.Message {
	return []chat.Message{{
		ID:        uuid.NewString(),
		Text:      welcomeText,
		Sender:    chat.SenderBot,
		CreatedAt: time.Now(),
	}}
}

// Messages returns a snapshot of the transcript.
func (c *Controller) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Message(nil), c.messages...)
}

// LastMessage returns the newest transcript entry.
func (c *Controller) LastMessage() (chat.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return chat.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Submit drives one chat turn. It returns once the model call has
// resolved and the reveal task (if any) is running; the returned
// handle's Done channel closes when the reply is fully revealed and
// recorded, or immediately on the error path. Model failures become
// in-transcript error messages, never returned errors.
func (c *Controller) Submit(ctx context.Context, text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("controller is closed")
	}
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	prev := c.active
	c.active = nil

	userMsg := chat.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    chat.SenderUser,
		CreatedAt: time.Now(),
	}
	history := append([]chat.Message(nil), c.messages...)
	c.messages = append(c.messages, userMsg)
	c.mu.Unlock()

	// Superseded reveal stops before the new turn begins.
	if prev != nil {
		prev.Cancel()
	}

	c.recorder.RecordMessage(ctx, userMsg)

	reply, err := c.generator.Generate(ctx, history, text)
	if err != nil {
		errMsg := chat.Message{
			ID:        uuid.NewString(),
			Text:      "NEURAL_ERROR: " + err.Error(),
			Sender:    chat.SenderBot,
			IsError:   true,
			CreatedAt: time.Now(),
		}
		c.mu.Lock()
		c.messages = append(c.messages, errMsg)
		c.busy = false
		c.mu.Unlock()

		c.recorder.RecordMessage(ctx, errMsg)
		return completedTask(), nil
	}

	botMsg := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderBot,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, botMsg)
	c.mu.Unlock()

	task := newRevealTask(c.interval, reply,
		func(partial string) {
			c.setMessageText(botMsg.ID, partial)
		},
		func() {
			final := botMsg
			final.Text = reply
			// Recorded only once the full reply is visible.
			c.recorder.RecordMessage(context.Background(), final)
		})

	c.mu.Lock()
	c.active = task
	c.busy = false
	c.mu.Unlock()

	return task, nil
}

// Reset snapshots the conversation into the usage aggregate, cancels
// any running reveal, and reseeds the welcome message.
func (c *Controller) Reset() {
	c.mu.Lock()
	prev := c.active
	c.active = nil
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	c.mu.Lock()
	snapshot := c.messages
	c.messages = seedMessages()
	c.mu.Unlock()

	c.recorder.RecordConversation(snapshot)
}

// Close cancels any running reveal. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	prev := c.active
	c.active = nil
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
}

func (c *Controller) setMessageText(id, text string) {
	c.mu.Lock()
	var updated chat.Message
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Text = text
			updated = c.messages[i]
			break
		}
	}
	c.mu.Unlock()

	if c.onDelta != nil && updated.ID != "" {
		c.onDelta(updated)
	}
}
