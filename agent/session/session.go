package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNilSession       = errors.New("session is nil")
	ErrInvalidSession   = errors.New("session id is empty")
	ErrInvalidTurn      = errors.New("turn is invalid")
	ErrTimestampsSkewed = errors.New("session timestamps out of order")
)

// Turn is one user message or one assistant reply. Turns are immutable once
// appended; AgentType is empty for user turns.
type Turn struct {
	ID            string              `json:"id"`
	Role          string              `json:"role"`
	Content       string              `json:"content"`
	Timestamp     time.Time           `json:"timestamp"`
	AgentType     string              `json:"agent_type,omitempty"`
	Products      []contractx.Product `json:"products"`
	WorkflowSteps []string            `json:"workflow_steps"`
}

// Session is the full ordered history and accumulated context for one
// conversation. The store exclusively owns Session objects; responders
// receive a reference for one call only.
type Session struct {
	SessionID   string         `json:"session_id"`
	Messages    []Turn         `json:"messages"`
	CreatedAt   time.Time      `json:"created_at"`
	LastUpdated time.Time      `json:"last_updated"`
	AgentType   string         `json:"agent_type,omitempty"`
	UserContext map[string]any `json:"user_context"`
}

func New(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID:   sessionID,
		Messages:    make([]Turn, 0, 16),
		CreatedAt:   now.UTC(),
		LastUpdated: now.UTC(),
		UserContext: make(map[string]any, 8),
	}
}

func (s *Session) Touch(now time.Time) {
	ts := now.UTC()
	if ts.After(s.LastUpdated) {
		s.LastUpdated = ts
	}
}

// EnsureContextMap makes sure s.UserContext is initialized.
func (s *Session) EnsureContextMap() {
	if s.UserContext == nil {
		s.UserContext = make(map[string]any, 8)
	}
}

// AppendTurn appends one immutable turn, assigns its ID, and bumps
// LastUpdated. Assistant turns also update the session's AgentType.
func (s *Session) AppendTurn(t Turn) error {
	if s == nil {
		return ErrNilSession
	}
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return fmt.Errorf("%w: role=%q", ErrInvalidTurn, t.Role)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	t.Timestamp = t.Timestamp.UTC()
	if t.Products == nil {
		t.Products = []contractx.Product{}
	}
	if t.WorkflowSteps == nil {
		t.WorkflowSteps = []string{}
	}

	s.Messages = append(s.Messages, t)
	if t.Role == RoleAssistant && t.AgentType != "" {
		s.AgentType = t.AgentType
	}
	s.Touch(t.Timestamp)
	return nil
}

// RecentTurns returns the last k turns in chronological order. The context
// window used for prompts is fixed at k=8 by the orchestrator.
func (s *Session) RecentTurns(k int) []Turn {
	if s == nil || k <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= k {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-k:]
}

// MergeUserContext applies patch last-write-wins per key.
func (s *Session) MergeUserContext(patch map[string]any) {
	if s == nil || len(patch) == 0 {
		return
	}
	s.EnsureContextMap()
	for k, v := range patch {
		s.UserContext[k] = v
	}
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	if s.LastUpdated.Before(s.CreatedAt) {
		return fmt.Errorf("%w: last_updated=%s created_at=%s",
			ErrTimestampsSkewed, s.LastUpdated, s.CreatedAt)
	}
	for i, t := range s.Messages {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			return fmt.Errorf("%w: message[%d] role=%q", ErrInvalidTurn, i, t.Role)
		}
	}
	return nil
}
