//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"CatalogStore/internal/catalog"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_ReadOnlyCatalog(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	c := catalog.NewClient(baseURL)

	products, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(products) > 0 {
		id := products[0].ID
		if id == "" {
			t.Fatalf("product id missing in response: %#v", products[0])
		}

		got, err := c.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got != products[0] {
			t.Fatalf("get=%+v list=%+v", got, products[0])
		}
	}

	if _, err := c.Get(ctx, "does-not-exist"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("get missing: err=%v want %v", err, catalog.ErrNotFound)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
