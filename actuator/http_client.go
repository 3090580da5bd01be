// actuator/http_client.go
package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	logger "github.com/doorward-io/doorward/logging"
)

// HTTPClient posts commands to the actuator bridge. Network-level failures
// are retried a small bounded number of times with linear backoff; after
// that the command is reported undeliverable and the correlator marks the
// event as an actuator error. Callback failures are never retried here —
// the actuator owns the callback leg.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewHTTPClient(baseURL string, dispatchTimeout time.Duration, maxRetries int, backoff time.Duration) *HTTPClient {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: dispatchTimeout},
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (c *HTTPClient) Dispatch(ctx context.Context, cmd Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal actuator command: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		lastErr = c.post(ctx, body)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info("Actuator dispatch succeeded after retry",
					zap.String("eventID", cmd.EventID),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		logger.Warn("Actuator dispatch attempt failed",
			zap.String("eventID", cmd.EventID),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * c.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("actuator unreachable after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *HTTPClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/commands", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("actuator returned status %d", resp.StatusCode)
	}
	return nil
}
