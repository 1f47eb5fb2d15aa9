package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

// ContextTurns is the bounded history window K used when building the
// responder's prompt context, in chronological order.
const ContextTurns = 8

const errorFallbackStep = "error_fallback"

// DispatchResponder runs the routed agent variant. A responder failure
// does not abort the turn: the variant's fallback reply is recorded so
// the next turn still sees accurate history.
func DispatchResponder(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	responder, err := pickResponder(in.AgentType, models)
	if err != nil {
		return nil, err
	}

	req := contractx.ResponderRequest{
		Query:       in.Text,
		History:     historyEntries(in.Session.RecentTurns(ContextTurns)),
		UserContext: in.Session.UserContext,
		Now:         in.Now,
	}

	resp, err := responder.Respond(ctx, req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", in.SessionID).
			Str("agent_type", string(in.AgentType)).
			Msg("responder failed, using fallback reply")

		in.Resp = contractx.ResponderResponse{
			Message:       responder.FallbackReply(),
			Products:      []contractx.Product{},
			WorkflowSteps: []string{errorFallbackStep},
		}
		in.Success = false
		return in, nil
	}

	in.Resp = resp
	in.Success = true
	return in, nil
}

func pickResponder(agentType contractx.AgentType, models contractx.Registry) (contractx.Responder, error) {
	switch agentType {
	case contractx.AgentTypeSales:
		return models.Sales(), nil
	case contractx.AgentTypeMedical:
		return models.Medical(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported agent type=%q", contractx.ErrValidation, agentType)
	}
}

func historyEntries(turns []sessionx.Turn) []contractx.HistoryEntry {
	if len(turns) == 0 {
		return nil
	}
	out := make([]contractx.HistoryEntry, 0, len(turns))
	for _, t := range turns {
		out = append(out, contractx.HistoryEntry{
			Role:      t.Role,
			Content:   t.Content,
			AgentType: t.AgentType,
		})
	}
	return out
}
