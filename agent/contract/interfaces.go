package contract

import "context"

// Responder generates the reply for one turn. Implementations must not
// retain the request beyond the call.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (ResponderResponse, error)

	// FallbackReply is the domain-appropriate reply used when Respond fails.
	FallbackReply() string
}

type Registry interface {
	Sales() Responder
	Medical() Responder
}

// ProductSearcher is the product-lookup capability consumed from the
// catalog collaborator.
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]Product, error)
}

// Evaluator scores a produced reply. Implementations never return an error
// past their boundary; failures degrade into the result itself.
type Evaluator interface {
	Evaluate(ctx context.Context, query string, reply string, products []Product, routedAgent AgentType) EvaluationResult
}
