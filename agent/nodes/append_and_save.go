package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

// AppendAndSave merges the context patch, appends the user and assistant
// turns, and persists the session with a single Save. Both turns land
// together or not at all; there is no intermediate persisted state.
func AppendAndSave(
	ctx context.Context,
	in *GraphState,
	store sessionx.Store,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.MergeUserContext(in.Resp.ContextPatch)

	if err := in.Session.AppendTurn(sessionx.Turn{
		Role:      sessionx.RoleUser,
		Content:   in.Text,
		Timestamp: in.Now,
	}); err != nil {
		return nil, err
	}

	if err := in.Session.AppendTurn(sessionx.Turn{
		Role:          sessionx.RoleAssistant,
		Content:       in.Resp.Message,
		Timestamp:     in.Now,
		AgentType:     string(in.AgentType),
		Products:      in.Resp.Products,
		WorkflowSteps: in.Resp.WorkflowSteps,
	}); err != nil {
		return nil, err
	}

	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, err
	}

	return in, nil
}
