package pricer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// ErrUpstreamStatus marks a non-2xx answer from the pricing service. Such
// requests are terminally failed: the client performs no automatic retry.
var ErrUpstreamStatus = errors.New("pricer: upstream status")

type Client struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

// NewClient returns a client for the ML pricing service. RetryMax starts at
// 0 because a failed call is surfaced as-is; deployments that want
// transport-level retries can raise it with SetRetryMax.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.HTTPClient.Timeout = 6 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(8), 8), // pace calls to the model service
	}
}

func (c *Client) SetRetryMax(n int) {
	if n >= 0 {
		c.http.RetryMax = n
	}
}

// ListCars fetches the full vehicle catalog. The raw payload is returned so
// callers can cache it verbatim and map it with MapCatalogPayload.
func (c *Client) ListCars(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/cars")
}

// FetchOptions fetches the distinct option values per facet category.
func (c *Client) FetchOptions(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/options")
}

// Predict submits a fully validated attribute set and returns the model's
// estimate plus comparable vehicles.
func (c *Client) Predict(ctx context.Context, req PredictionRequest) (PredictionResult, error) {
	raw, err := c.post(ctx, "/predict", req)
	if err != nil {
		return PredictionResult{}, err
	}
	return MapPredictionPayload(raw)
}

// FindByBody asks the service for vehicles of a body type near a price
// point. The attribute bag and the response are passed through untouched.
func (c *Client) FindByBody(ctx context.Context, attrs map[string]any) ([]byte, error) {
	return c.post(ctx, "/find_by_body", attrs)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("%w %d: %v", ErrUpstreamStatus, resp.StatusCode, body)
	}
	return readAllLimit(resp.Body, 4<<20) // 4MB guard
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
