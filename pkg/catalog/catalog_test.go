package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSearch(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"products":[{"name":"Walking Cane","price":15.5,"currency":"USD","vendor":"MediShop"}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	products, err := client.Search(context.Background(), "walking cane")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(products) != 1 || products[0].Name != "Walking Cane" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if gotPath != "/search?q=walking+cane" {
		t.Fatalf("unexpected request path: %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
}

func TestClientSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{URL: "https://catalog.example.com"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	// No request is made for an empty query.
	products, err := client.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products, got %+v", products)
	}
}

func TestClientSearchErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"index unavailable"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Search(context.Background(), "cane"); err == nil {
		t.Fatal("expected error from payload")
	}
}

func TestClientSearchHTTPStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Search(context.Background(), "cane"); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: ""}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "://bad"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
