package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by Load when no record exists for the id.
// Callers treat it as "create a fresh session", not as a failure.
var ErrSessionNotFound = errors.New("session not found")

// Store is the persistence contract used by the orchestrator. Stores own
// the Session documents; implementations must be safe for concurrent use
// across distinct session ids.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}
