package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// emitTimeout caps a single delivery attempt so telemetry can never stall
// a run for long.
const emitTimeout = 5 * time.Second

// HTTPEmitter posts events as JSON to a telemetry endpoint.
type HTTPEmitter struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPEmitter creates an emitter for the given endpoint.
func NewHTTPEmitter(endpoint string) *HTTPEmitter {
	return &HTTPEmitter{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: emitTimeout},
	}
}

// Emit delivers one event. Callers treat a returned error as a debug-level
// condition, not a run failure.
func (e *HTTPEmitter) Emit(ctx context.Context, event *Event) error {
	if event == nil {
		return ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding analytics event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivering analytics event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// Close is a no-op; the emitter holds no connection state.
func (e *HTTPEmitter) Close() error {
	return nil
}
