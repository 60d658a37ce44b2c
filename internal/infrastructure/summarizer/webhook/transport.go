package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// post sends the chunk payload and returns the raw response body for
// any accepted status (200/201/202). Every other status becomes an
// *HTTPStatusError carrying the body prefix as the diagnostic.
func (c *Client) post(ctx context.Context, payload chunkPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return raw, nil
	}

	return nil, &HTTPStatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       truncate(strings.TrimSpace(string(raw)), 200),
	}
}

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "webhook status error"
	}
	// n8n answers 404 with a JSON hint when the workflow's webhook
	// node is in test mode and not armed; surface that hint directly.
	if e.StatusCode == http.StatusNotFound && strings.Contains(e.Body, "not registered") {
		return fmt.Sprintf("webhook returned 404: %s", notRegisteredMessage(e.Body))
	}
	if e.Body == "" {
		return fmt.Sprintf("webhook returned %s", e.Status)
	}
	return fmt.Sprintf("webhook returned %s: %s", e.Status, e.Body)
}

func notRegisteredMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "webhook not registered"
}

// extractSummary picks the most relevant text out of a webhook reply.
// Workflows answer with different shapes: a bare string, an object
// with one of a few well-known keys, or arbitrary JSON. An empty or
// unusable body yields "".
func extractSummary(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Plain-text reply.
		return text
	}

	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return extractFromObject(v)
	case nil:
		return ""
	default:
		return stringifyJSON(decoded)
	}
}

var summaryKeys = []string{"summary", "summarization", "result", "output", "text", "content"}

func extractFromObject(obj map[string]any) string {
	for _, key := range summaryKeys {
		value, ok := obj[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case map[string]any:
			return stringifyJSON(v)
		case nil:
			// Keep looking.
		default:
			return fmt.Sprint(v)
		}
	}
	if len(obj) == 0 {
		return ""
	}
	return stringifyJSON(obj)
}

func stringifyJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
