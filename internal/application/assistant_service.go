package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FleetPro/service-dashboard/internal/domain/chat"
	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

const maxTranscriptTurns = 200

// RouteQueryRequest is the body of a smart route assistant submission.
type RouteQueryRequest struct {
	Query string `json:"query"`
}

// ChatRequest is the body of an AI assistant chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReplyDTO is the assistant's answer to one chat message.
type ChatReplyDTO struct {
	Topic     string    `json:"topic"`
	Reply     string    `json:"reply"`
	RepliedAt time.Time `json:"replied_at"`
}

// AssistantService backs the smart route assistant and the AI assistant chat.
type AssistantService struct {
	gates     *GateRegistry
	chatDelay time.Duration
	logger    *zap.Logger

	now func() time.Time

	mu          sync.Mutex
	transcripts map[string]*chat.Transcript
	lastSeen    map[string]time.Time
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(catalog *routeDomain.Catalog, resolveDelay, chatDelay time.Duration, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		gates:       NewGateRegistry(catalog, resolveDelay),
		chatDelay:   chatDelay,
		logger:      logger,
		now:         time.Now,
		transcripts: make(map[string]*chat.Transcript),
		lastSeen:    make(map[string]time.Time),
	}
}

// SubmitRouteQuery hands query to the session's gate and returns the
// immediate snapshot (Loading, or Idle for a blank query).
func (s *AssistantService) SubmitRouteQuery(sessionID string, req RouteQueryRequest) GateSnapshot {
	s.touch(sessionID)
	snap := s.gates.Gate(sessionID).Submit(req.Query)
	s.logger.Debug("route query submitted",
		zap.String("session_id", sessionID),
		zap.Uint64("seq", snap.Seq),
		zap.String("state", string(snap.State)),
	)
	return snap
}

// CurrentRouteQuery returns the session's gate state, optionally waiting for
// the pending query to resolve.
func (s *AssistantService) CurrentRouteQuery(ctx context.Context, sessionID string, wait bool) (GateSnapshot, error) {
	s.touch(sessionID)
	gate := s.gates.Gate(sessionID)
	if !wait {
		return gate.Snapshot(), nil
	}
	return gate.Wait(ctx)
}

// Chat answers message with a canned reply after the configured delay.
func (s *AssistantService) Chat(ctx context.Context, sessionID string, req ChatRequest) (*ChatReplyDTO, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, domain.NewValidationError("message is required")
	}

	s.touch(sessionID)
	asked := chat.Turn{Speaker: chat.SpeakerUser, Text: message, At: time.Now().UTC()}

	if s.chatDelay > 0 {
		timer := time.NewTimer(s.chatDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	reply := chat.Respond(message)
	now := time.Now().UTC()
	// A question is only recorded together with its answer.
	s.transcript(sessionID).Append(asked, chat.Turn{Speaker: chat.SpeakerAssistant, Text: reply.Text, Topic: reply.Topic, At: now})

	s.logger.Debug("chat reply",
		zap.String("session_id", sessionID),
		zap.String("topic", string(reply.Topic)),
	)

	return &ChatReplyDTO{Topic: string(reply.Topic), Reply: reply.Text, RepliedAt: now}, nil
}

// ChatHistory returns the session's conversation, oldest first.
func (s *AssistantService) ChatHistory(sessionID string) []chat.Turn {
	s.mu.Lock()
	t, ok := s.transcripts[sessionID]
	s.mu.Unlock()
	if !ok {
		return []chat.Turn{}
	}
	return t.Turns()
}

// DropSession discards the session's gate and transcript.
func (s *AssistantService) DropSession(sessionID string) {
	s.gates.Drop(sessionID)

	s.mu.Lock()
	delete(s.transcripts, sessionID)
	delete(s.lastSeen, sessionID)
	s.mu.Unlock()
}

// PruneIdle drops every session not used within maxIdle and returns how many
// were dropped. Sessions that end by expiry never reach the logout hook, so
// this is what reclaims them.
func (s *AssistantService) PruneIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var idle []string
	for id, seen := range s.lastSeen {
		if seen.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	s.mu.Unlock()

	for _, id := range idle {
		s.DropSession(id)
	}
	return len(idle)
}

// RunSweeper calls PruneIdle every interval until ctx ends.
func (s *AssistantService) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneIdle(maxIdle); n > 0 {
				s.logger.Info("pruned idle assistant sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *AssistantService) touch(sessionID string) {
	s.mu.Lock()
	s.lastSeen[sessionID] = s.now()
	s.mu.Unlock()
}

func (s *AssistantService) transcript(sessionID string) *chat.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transcripts[sessionID]
	if !ok {
		t = chat.NewTranscript(maxTranscriptTurns)
		s.transcripts[sessionID] = t
	}
	return t
}
