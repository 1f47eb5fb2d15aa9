package turnnode

import (
	"fmt"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

// FinalizeTurn shapes the agent reply into the outward-facing result.
func FinalizeTurn(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	products := in.Resp.Products
	if products == nil {
		products = []contractx.Product{}
	}
	steps := in.Resp.WorkflowSteps
	if steps == nil {
		steps = []string{}
	}

	return GraphOutput{
		Result: contractx.TurnResult{
			Reply:         in.Resp.Message,
			Products:      products,
			WorkflowSteps: steps,
			AgentType:     in.AgentType,
			Success:       in.Success,
		},
	}, nil
}
