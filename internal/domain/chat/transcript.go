package chat

import (
	"sync"
	"time"
)

// Speaker is the author of a chat turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	Topic   Topic     `json:"topic,omitempty"`
	At      time.Time `json:"at"`
}

// Transcript is a bounded, concurrency-safe conversation history.
type Transcript struct {
	mu       sync.Mutex
	turns    []Turn
	maxTurns int
}

// NewTranscript creates a Transcript keeping at most maxTurns turns (0 = unbounded).
func NewTranscript(maxTurns int) *Transcript {
	return &Transcript{maxTurns: maxTurns}
}

// Append adds turns as one contiguous block, dropping the oldest when over
// capacity.
func (t *Transcript) Append(turns ...Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turns...)
	if t.maxTurns > 0 && len(t.turns) > t.maxTurns {
		t.turns = append([]Turn(nil), t.turns[len(t.turns)-t.maxTurns:]...)
	}
}

// Turns returns a copy of the history, oldest first.
func (t *Transcript) Turns() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}
