// Package client talks to a running budget server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultRetryMax = 3
	DefaultTimeout  = 30 * time.Second
)

var _ models.Reloader = &ReloadClient{}

// ReloadClient asks a server to reload its model after an out-of-process
// training run or corpus edit.
type ReloadClient struct {
	baseURL string
	client  *http.Client
}

// NewReloadClient returns a client whose retryable transport is wrapped in
// an OpenTelemetry transport.
func NewReloadClient(baseURL string, retryMax int, timeout time.Duration) *ReloadClient {
	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient.Timeout = timeout
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(internal.GetLogger())
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = RetryPolicy
	retryableHTTPClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryableHTTPClient.RetryWaitMin = 100 * time.Millisecond
	retryableHTTPClient.RetryWaitMax = 2 * time.Second

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(
			retryableHTTPClient.StandardClient().Transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	return &ReloadClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// RetryPolicy retries transport errors and the gateway statuses of a server
// that is restarting. Any other response, including a 500 from a failed
// load, is final.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	default:
		return false, nil
	}
}

// Reload calls POST /reload_model.
func (c *ReloadClient) Reload(ctx context.Context) error {
	url := c.baseURL + "/reload_model"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build reload request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("reload request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read reload response: %w", err)
	}

	var result models.ReloadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("unexpected reload response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || result.Status != models.ReloadStatusOK {
		return fmt.Errorf("server failed to reload model (%s): %s", resp.Status, result.Message)
	}
	return nil
}
