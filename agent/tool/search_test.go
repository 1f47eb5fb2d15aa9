package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

type flakySearcher struct {
	failures int
	calls    int
	products []contractx.Product
}

func (f *flakySearcher) Search(ctx context.Context, query string) ([]contractx.Product, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient failure")
	}
	return f.products, nil
}

func TestWithRetryRecoversOnce(t *testing.T) {
	t.Parallel()

	inner := &flakySearcher{
		failures: 1,
		products: []contractx.Product{{Name: "Cane"}},
	}
	searcher := WithRetry(inner, time.Second, time.Millisecond)

	products, err := searcher.Search(context.Background(), "cane")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected one retry, got %d calls", inner.calls)
	}
	if len(products) != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestWithRetryGivesUpAfterSecondFailure(t *testing.T) {
	t.Parallel()

	inner := &flakySearcher{failures: 10}
	searcher := WithRetry(inner, time.Second, time.Millisecond)

	_, err := searcher.Search(context.Background(), "cane")
	if !errors.Is(err, contractx.ErrToolFailure) {
		t.Fatalf("expected ErrToolFailure, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected exactly two attempts, got %d", inner.calls)
	}
}

func TestWithRetryHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	inner := &flakySearcher{failures: 10}
	searcher := WithRetry(inner, time.Second, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "cane")
	if !errors.Is(err, contractx.ErrToolFailure) {
		t.Fatalf("expected ErrToolFailure, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("cancelled context must skip the retry, got %d calls", inner.calls)
	}
}
