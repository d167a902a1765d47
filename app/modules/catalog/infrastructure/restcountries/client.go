package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultEndpoint = "https://restcountries.com/v3.1/independent?status=true"
	defaultTimeout  = 10 * time.Second
)

// ErrUnexpectedStatus is returned for any answer other than 200 OK.
var ErrUnexpectedStatus = errors.New("received non-200 status code")

// Client downloads the full country list from the REST Countries API.
type Client struct {
	client   *http.Client
	Endpoint string
}

// NewClient creates a client for endpoint. A zero timeout falls back to the
// default of ten seconds.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Endpoint: endpoint,
	}
}

// FetchAll performs one GET against the endpoint and returns the body
// verbatim. Non-200 answers yield ErrUnexpectedStatus; bodies that are not
// valid JSON are an error as well.
func (c *Client) FetchAll(ctx context.Context) (catalogdomain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON from %s", c.Endpoint)
	}
	return catalogdomain.Document(body), nil
}
