package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
	catalogx "github.com/alessalabs/medassist/pkg/catalog"
)

const (
	defaultSearchTimeout = 10 * time.Second
	defaultRetryBackoff  = 500 * time.Millisecond
)

// CatalogSearcher adapts the catalog HTTP client to the product-lookup
// capability consumed by the agents.
type CatalogSearcher struct {
	client *catalogx.Client
}

func NewCatalogSearcher(client *catalogx.Client) *CatalogSearcher {
	return &CatalogSearcher{client: client}
}

func (c *CatalogSearcher) Search(ctx context.Context, query string) ([]contractx.Product, error) {
	items, err := c.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]contractx.Product, 0, len(items))
	for _, it := range items {
		out = append(out, contractx.Product{
			Name:     it.Name,
			Price:    it.Price,
			URL:      it.URL,
			Vendor:   it.Vendor,
			Currency: it.Currency,
		})
	}
	return out, nil
}

// retryingSearcher bounds every search with a timeout and retries once
// with backoff before surfacing ErrToolFailure. Tool calls are never
// retried indefinitely.
type retryingSearcher struct {
	inner   contractx.ProductSearcher
	timeout time.Duration
	backoff time.Duration
}

func WithRetry(inner contractx.ProductSearcher, timeout, backoff time.Duration) contractx.ProductSearcher {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return &retryingSearcher{
		inner:   inner,
		timeout: timeout,
		backoff: backoff,
	}
}

func (r *retryingSearcher) Search(ctx context.Context, query string) ([]contractx.Product, error) {
	products, err := r.searchOnce(ctx, query)
	if err == nil {
		return products, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrToolFailure, ctx.Err())
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", contractx.ErrToolFailure, ctx.Err())
	case <-time.After(r.backoff):
	}

	products, retryErr := r.searchOnce(ctx, query)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: search %q: %v", contractx.ErrToolFailure, query, errors.Join(err, retryErr))
	}
	return products, nil
}

func (r *retryingSearcher) searchOnce(ctx context.Context, query string) ([]contractx.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Search(ctx, query)
}
