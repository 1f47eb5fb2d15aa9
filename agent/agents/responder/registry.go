package responder

import (
	"context"
	"fmt"

	contractx "github.com/alessalabs/medassist/agent/contract"
	llmx "github.com/alessalabs/medassist/agent/llm"
	promptx "github.com/alessalabs/medassist/agent/prompt"
)

type registryImpl struct {
	sales   contractx.Responder
	medical contractx.Responder
}

func (r *registryImpl) Sales() contractx.Responder {
	return r.sales
}

func (r *registryImpl) Medical() contractx.Responder {
	return r.medical
}

// NewRegistry builds one responder per agent variant, each with its own
// model configuration and toolset.
func NewRegistry(ctx context.Context, cfg llmx.Config, searcher contractx.ProductSearcher) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if searcher == nil {
		return nil, fmt.Errorf("%w: product searcher is required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()

	salesModelCfg := cfg.OpenRouterFor(string(contractx.AgentTypeSales))
	salesModel, err := salesModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create sales model: %v", contractx.ErrModelInvoke, err)
	}
	medicalModelCfg := cfg.OpenRouterFor(string(contractx.AgentTypeMedical))
	medicalModel, err := medicalModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create medical model: %v", contractx.ErrModelInvoke, err)
	}

	sales, err := newResponder(ctx, salesProfile(prompts.Sales), salesModel, searcher)
	if err != nil {
		return nil, err
	}
	medical, err := newResponder(ctx, medicalProfile(prompts.Medical), medicalModel, searcher)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		sales:   sales,
		medical: medical,
	}, nil
}
