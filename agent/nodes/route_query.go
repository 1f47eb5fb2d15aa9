package turnnode

import (
	"fmt"

	contractx "github.com/alessalabs/medassist/agent/contract"
	routerx "github.com/alessalabs/medassist/agent/router"
)

// RouteQuery re-routes every turn independently; the session's previous
// agent type is informational only.
func RouteQuery(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.AgentType = routerx.Route(in.Text, in.Session)
	return in, nil
}
