package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mediastore-next/internal/models"
)

func TestListProductsAcceptsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "Book" {
			t.Fatalf("category query want Book got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "Book-1", "title": "1984", "category": "Book", "price": "13.99", "stock": 20},
			{"id": "Book-2", "title": "Dune", "category": "Book", "price": "15.50", "stock": 8},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(Endpoint{BaseURL: server.URL, Timeout: time.Second})
	page, err := client.ListProducts(context.Background(), ListParams{Category: "Book", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 2 || page.Page != 1 {
		t.Fatalf("bare array should become a single page: %+v", page)
	}
	if page.Items[0].Price.String() != "13.99" {
		t.Fatalf("price want 13.99 got %s", page.Items[0].Price)
	}
}

func TestListProductsAcceptsPaginatedObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("size"); got != "10" {
			t.Fatalf("size query want 10 got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "CD-1", "title": "Kind of Blue", "category": "CD", "price": 9.5, "stock": 5},
			},
			"page":  2,
			"size":  10,
			"total": 25,
		})
	}))
	defer server.Close()

	client := NewCatalogClient(Endpoint{BaseURL: server.URL})
	page, err := client.ListProducts(context.Background(), ListParams{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 25 || page.Page != 2 || len(page.Items) != 1 {
		t.Fatalf("page mismatch: %+v", page)
	}
}

func TestListProductsSkipsAllCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("category") {
			t.Fatalf("All category should not be forwarded")
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer server.Close()

	client := NewCatalogClient(Endpoint{BaseURL: server.URL})
	if _, err := client.ListProducts(context.Background(), ListParams{Category: "All"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCatalogClient(Endpoint{BaseURL: server.URL})
	if _, err := client.GetProductByID(context.Background(), "Book-999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestClientNotConfigured(t *testing.T) {
	client := NewCatalogClient(Endpoint{})
	if _, err := client.ListProducts(context.Background(), ListParams{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured got %v", err)
	}
	if _, err := client.GetProductByID(context.Background(), "Book-1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured got %v", err)
	}
}

func TestCreateProductRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/products" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var input models.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("decode input failed: %v", err)
		}
		_ = json.NewEncoder(w).Encode(models.Product{
			ID:       "DVD-99",
			Title:    input.Title,
			Category: input.Category,
			Price:    input.Price,
			Stock:    input.Stock,
		})
	}))
	defer server.Close()

	client := NewCatalogClient(Endpoint{BaseURL: server.URL})
	created, err := client.CreateProduct(context.Background(), models.ProductInput{
		Title:    "Blade Runner",
		Category: models.CategoryDVD,
		Price:    models.NewMoneyFromFloat(19.99),
		Stock:    3,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "DVD-99" || created.Title != "Blade Runner" {
		t.Fatalf("created mismatch: %+v", created)
	}
}
