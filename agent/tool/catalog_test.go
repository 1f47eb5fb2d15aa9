package tool

import (
	"context"
	"testing"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

type fakeSearcher struct {
	products []contractx.Product
	err      error
	calls    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]contractx.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]contractx.Product(nil), f.products...), nil
}

func TestExecutorProductSearch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		products: []contractx.Product{
			{Name: "Wheelchair A", Price: 300},
			{Name: "wheelchair a", Price: 280},
			{Name: "Wheelchair B", Price: 450},
		},
	}
	exec := NewExecutor(contractx.AgentTypeSales, searcher)

	result, err := exec(context.Background(), ToolProductSearch, map[string]any{"query": "wheelchair"})
	if err != nil {
		t.Fatalf("exec() error = %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected tool error: %s", result.Error)
	}
	if len(result.Products) != 2 {
		t.Fatalf("expected deduplicated products, got %+v", result.Products)
	}
}

func TestExecutorProductSearchCapsResults(t *testing.T) {
	t.Parallel()

	products := make([]contractx.Product, 0, 8)
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		products = append(products, contractx.Product{Name: n})
	}
	exec := NewExecutor(contractx.AgentTypeSales, &fakeSearcher{products: products})

	result, err := exec(context.Background(), ToolProductSearch, map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("exec() error = %v", err)
	}
	if len(result.Products) != maxProductsPerCall {
		t.Fatalf("expected %d products, got %d", maxProductsPerCall, len(result.Products))
	}
}

func TestExecutorProductSearchMissingQuery(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(contractx.AgentTypeSales, &fakeSearcher{})

	result, err := exec(context.Background(), ToolProductSearch, map[string]any{})
	if err != nil {
		t.Fatalf("argument errors are recovered tool errors, got %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected tool error for missing query")
	}
}

func TestExecutorSearchFailureIsRecovered(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(contractx.AgentTypeSales, &fakeSearcher{err: context.DeadlineExceeded})

	result, err := exec(context.Background(), ToolProductSearch, map[string]any{"query": "walker"})
	if err != nil {
		t.Fatalf("search failure must be recovered, got %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected tool error recorded")
	}
	if len(result.Products) != 0 {
		t.Fatalf("expected no products, got %+v", result.Products)
	}
}

func TestExecutorPriceCompare(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		products: []contractx.Product{
			{Name: "Deluxe Walker", Price: 120},
			{Name: "Basic Walker", Price: 45},
			{Name: "Mid Walker", Price: 80},
			{Name: "Premium Walker", Price: 300},
		},
	}
	exec := NewExecutor(contractx.AgentTypeSales, searcher)

	result, err := exec(context.Background(), ToolPriceCompare, map[string]any{
		"query":  "walker",
		"budget": 100.0,
	})
	if err != nil {
		t.Fatalf("exec() error = %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("budget filter failed: %+v", result.Products)
	}
	if result.Products[0].Name != "Basic Walker" || result.Products[1].Name != "Mid Walker" {
		t.Fatalf("expected cheapest first, got %+v", result.Products)
	}
}

func TestExecutorPriceCompareNoBudget(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		products: []contractx.Product{
			{Name: "B", Price: 20},
			{Name: "A", Price: 10},
		},
	}
	exec := NewExecutor(contractx.AgentTypeSales, searcher)

	result, err := exec(context.Background(), ToolPriceCompare, map[string]any{"query": "x"})
	if err != nil {
		t.Fatalf("exec() error = %v", err)
	}
	if result.Products[0].Name != "A" {
		t.Fatalf("expected price sort, got %+v", result.Products)
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(contractx.AgentTypeMedical, &fakeSearcher{})

	result, err := exec(context.Background(), "inventory.query", map[string]any{})
	if err != nil {
		t.Fatalf("unknown tool is a recovered error, got %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected tool error for unknown tool")
	}
}

func TestInfosForAgent(t *testing.T) {
	t.Parallel()

	sales := InfosForAgent(contractx.AgentTypeSales)
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales tools, got %d", len(sales))
	}
	medical := InfosForAgent(contractx.AgentTypeMedical)
	if len(medical) != 1 || medical[0].Name != ToolProductSearch {
		t.Fatalf("medical agent gets search only, got %+v", medical)
	}
	if InfosForAgent("unknown") != nil {
		t.Fatal("unknown agent type has no tools")
	}
}
