package turnnode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

func LoadOrCreateSession(
	ctx context.Context,
	in *GraphState,
	store sessionx.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := loadOrCreateSession(ctx, store, in.SessionID, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = sess
	return in, nil
}

// An absent session id is not an error; a fresh session is created
// transparently.
func loadOrCreateSession(
	ctx context.Context,
	store sessionx.Store,
	sessionID string,
	now time.Time,
) (*sessionx.Session, error) {
	sess, err := store.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sessionx.ErrSessionNotFound) {
		return nil, err
	}

	return sessionx.New(sessionID, now), nil
}
