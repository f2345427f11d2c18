// Package catalogapi is the HTTP client for the product catalog API.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

// ErrNotFound is returned when the API answers 404 for a product or stock lookup.
var ErrNotFound = errors.New("not found")

// Client fetches products and stock from the catalog API.
// It implements cart.Catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		userAgent:  "cartctl",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Product fetches GET /products/{id}.
func (c *Client) Product(ctx context.Context, id int) (cart.Product, error) {
	var p cart.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return cart.Product{}, fmt.Errorf("fetching product %d: %w", id, err)
	}
	return p, nil
}

// Stock fetches GET /stock/{id}.
func (c *Client) Stock(ctx context.Context, id int) (cart.Stock, error) {
	var s cart.Stock
	if err := c.get(ctx, fmt.Sprintf("/stock/%d", id), &s); err != nil {
		return cart.Stock{}, fmt.Errorf("fetching stock %d: %w", id, err)
	}
	return s, nil
}

// Products fetches the full listing from GET /products.
func (c *Client) Products(ctx context.Context) ([]cart.Product, error) {
	var ps []cart.Product
	if err := c.get(ctx, "/products", &ps); err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	return ps, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}
	return nil
}
