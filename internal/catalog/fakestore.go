package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

const DefaultFakeStoreURL = "https://fakestoreapi.com"

type fakeStoreProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func (p fakeStoreProduct) toDomain() domain.Product {
	return domain.Product{
		Name:        p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
	}
}

// FakeStoreClient reads the public Fake Store catalog.
type FakeStoreClient struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

func NewFakeStoreClient(baseURL string, timeout time.Duration) *FakeStoreClient {
	if baseURL == "" {
		baseURL = DefaultFakeStoreURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &FakeStoreClient{
		http:    client,
		breaker: circuitbreaker.New[*resty.Response](circuitbreaker.DefaultConfig("fakestore")),
	}
}

func (c *FakeStoreClient) Products(ctx context.Context) ([]domain.Product, error) {
	var items []fakeStoreProduct
	if err := c.get(ctx, c.http.R().SetResult(&items), "/products"); err != nil {
		return nil, err
	}
	return toDomain(items), nil
}

func (c *FakeStoreClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, c.http.R().SetResult(&categories), "/products/categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *FakeStoreClient) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var items []fakeStoreProduct
	req := c.http.R().
		SetResult(&items).
		SetPathParam("category", category)
	if err := c.get(ctx, req, "/products/category/{category}"); err != nil {
		return nil, err
	}
	return toDomain(items), nil
}

func (c *FakeStoreClient) get(ctx context.Context, req *resty.Request, path string) error {
	_, err := c.breaker.Execute(func() (*resty.Response, error) {
		resp, err := req.SetContext(ctx).Get(path)
		if err != nil {
			return nil, fmt.Errorf("fakestore GET %s: %w", path, err)
		}
		if resp.IsError() {
			return resp, fmt.Errorf("fakestore GET %s: unexpected status %d", path, resp.StatusCode())
		}
		return resp, nil
	})
	return err
}

func toDomain(items []fakeStoreProduct) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, item.toDomain())
	}
	return products
}
