package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/alessalabs/medassist/agent/contract"
	dedupex "github.com/alessalabs/medassist/agent/dedupe"
)

const (
	ToolProductSearch = "product.search"
	ToolPriceCompare  = "price.compare"

	// The original catalog surfaced at most five recommendations per turn.
	maxProductsPerCall = 5
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// BuildForAgent returns the tool declarations and the executor for one
// agent variant.
func BuildForAgent(agentType contractx.AgentType, searcher contractx.ProductSearcher) ([]*schema.ToolInfo, Executor) {
	return InfosForAgent(agentType), NewExecutor(agentType, searcher)
}

func NewExecutor(agentType contractx.AgentType, searcher contractx.ProductSearcher) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolProductSearch:
			return executeProductSearch(ctx, searcher, tool, args)
		case ToolPriceCompare:
			return executePriceCompare(ctx, searcher, tool, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, agentType),
			}, nil
		}
	}
}

func executeProductSearch(
	ctx context.Context,
	searcher contractx.ProductSearcher,
	tool string,
	args map[string]any,
) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	products, err := searcher.Search(ctx, query)
	if err != nil {
		// Recovered locally: the responder degrades to an empty result
		// set and marks the workflow.
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	return contractx.ToolResult{
		Tool:     tool,
		Products: dedupex.ProductsLimit(products, maxProductsPerCall),
	}, nil
}

func executePriceCompare(
	ctx context.Context,
	searcher contractx.ProductSearcher,
	tool string,
	args map[string]any,
) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	products, err := searcher.Search(ctx, query)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	products = dedupex.Products(products)

	if budget, ok := floatArg(args, "budget"); ok {
		affordable := make([]contractx.Product, 0, len(products))
		for _, p := range products {
			if p.Price <= budget {
				affordable = append(affordable, p)
			}
		}
		products = affordable
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Price < products[j].Price
	})
	if len(products) > maxProductsPerCall {
		products = products[:maxProductsPerCall]
	}

	return contractx.ToolResult{
		Tool:     tool,
		Products: products,
	}, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return s, nil
}

func floatArg(args map[string]any, key string) (float64, bool) {
	raw, ok := args[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func InfosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	search := &schema.ToolInfo{
		Name: ToolProductSearch,
		Desc: "Search the product catalog by free-text query and return matching products with prices.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Natural language product query", Required: true},
		}),
	}

	switch agentType {
	case contractx.AgentTypeSales:
		return []*schema.ToolInfo{
			search,
			{
				Name: ToolPriceCompare,
				Desc: "Compare catalog products by price, optionally within a budget, cheapest first.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"query":  {Type: schema.String, Desc: "Product query to compare", Required: true},
					"budget": {Type: schema.Number, Desc: "Budget ceiling in the catalog currency"},
				}),
			},
		}
	case contractx.AgentTypeMedical:
		return []*schema.ToolInfo{search}
	default:
		return nil
	}
}
