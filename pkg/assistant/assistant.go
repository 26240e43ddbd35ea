// Package assistant backs the chat panel: it forwards prompts to a text
// generator and keeps the conversation transcript.
package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
)

// Replies shown in place of a generated answer.
const (
	ReplyMissingKey = "SYSTEM ERROR: API_KEY_MISSING. Please configure the environment."
	ReplyEmpty      = "SYSTEM_NO_RESPONSE"
	ReplyFailure    = "SYSTEM CRITICAL FAILURE: Connection interrupted."

	Greeting = "Hello. I am K-AI. How can I assist you today?"
)

// Generator produces a reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Role identifies the author of a transcript line.
type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// Message is one transcript line.
type Message struct {
	Role Role
	Text string
	At   time.Time
}

// Assistant answers prompts. Failures are turned into canned replies and
// never returned as errors. Safe for concurrent use.
type Assistant struct {
	gen    Generator
	logger zerolog.Logger

	mu      sync.Mutex
	history []Message
}

// New creates an assistant. gen may be nil, in which case every reply is
// ReplyMissingKey.
func New(gen Generator) *Assistant {
	return &Assistant{
		gen:     gen,
		logger:  logging.NewLogger("assistant"),
		history: []Message{{Role: RoleSystem, Text: Greeting, At: time.Now()}},
	}
}

// Reply records prompt, asks the generator and records the answer.
func (a *Assistant) Reply(ctx context.Context, prompt string) string {
	a.append(RoleUser, prompt)
	reply := a.generate(ctx, prompt)
	a.append(RoleSystem, reply)
	return reply
}

func (a *Assistant) generate(ctx context.Context, prompt string) string {
	if a.gen == nil {
		return ReplyMissingKey
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Assistant request failed")
		return ReplyFailure
	}
	if strings.TrimSpace(text) == "" {
		a.logger.Warn().Msg("Assistant returned an empty reply")
		return ReplyEmpty
	}

	a.logger.Debug().Dur("duration", time.Since(start)).Int("chars", len(text)).Msg("Assistant replied")
	return text
}

func (a *Assistant) append(role Role, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, Message{Role: role, Text: text, At: time.Now()})
}

// History returns a copy of the transcript, oldest first.
func (a *Assistant) History() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.history))
	copy(out, a.history)
	return out
}

// Configured reports whether a generator is attached.
func (a *Assistant) Configured() bool {
	return a.gen != nil
}
