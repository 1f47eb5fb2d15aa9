// Package turnnode holds the graph nodes of the turn-handling pipeline.
package turnnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

var ErrInvalidSession = errors.New("session id is empty")

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Result contractx.TurnResult
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session   *sessionx.Session
	AgentType contractx.AgentType

	Resp    contractx.ResponderResponse
	Success bool
}

// ValidateRequest normalizes the input. An empty or whitespace-only query
// is legal; it routes through the router's fallback rule.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      strings.TrimSpace(in.Text),
		Now:       nowFn().UTC(),
	}, nil
}
