// Package webhook submits chunks to an n8n-style summarization webhook
// and turns each HTTP exchange into a single final SummaryResult.
package webhook

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/infrastructure/resilience"
)

type Client struct {
	webhookURL string
	httpClient httpDoer
	executor   *resilience.Executor
	limiter    *rate.Limiter
	now        func() time.Time
}

type Options struct {
	Timeout time.Duration
	Policy  resilience.Policy
	RateRPS float64
	Burst   int
}

func New(webhookURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	rps := options.RateRPS
	if rps <= 0 {
		rps = 1
	}
	burst := options.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		webhookURL: strings.TrimRight(webhookURL, "/"),
		httpClient: newHTTPClient(timeout),
		executor:   resilience.NewExecutor(options.Policy),
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		now:        time.Now,
	}
}

type chunkPayload struct {
	FileName    string `json:"file_name"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	ChunkNumber int    `json:"chunk_number,omitempty"`
	TotalChunks int    `json:"total_chunks,omitempty"`
}

// Summarize posts one chunk and returns the final verdict for it. A
// definitive remote rejection (bad status, unregistered webhook) comes
// back as a failed SummaryResult carrying the remote's own diagnostic;
// only transport-level breakdown after retries surfaces as an error.
func (c *Client) Summarize(ctx context.Context, chunk domain.Chunk) (domain.SummaryResult, error) {
	if c.webhookURL == "" {
		return domain.SummaryResult{
			Succeeded:   false,
			ErrorDetail: "summarizer webhook URL not configured",
		}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.SummaryResult{}, err
	}

	payload := chunkPayload{
		FileName:  chunk.DocumentName,
		Content:   chunk.Text,
		Timestamp: c.now().UTC().Format(time.RFC3339),
	}
	// Single-chunk submissions omit the chunk coordinates, matching
	// what the workflow expects for unsplit files.
	if chunk.Total > 1 {
		payload.ChunkNumber = chunk.Index
		payload.TotalChunks = chunk.Total
	}

	var raw []byte
	call := func(callCtx context.Context) error {
		body, err := c.post(callCtx, payload)
		if err != nil {
			return err
		}
		raw = body
		return nil
	}

	err := c.executor.Execute(ctx, "webhook.summarize", call, classifyWebhookError)
	if err != nil {
		var statusErr *HTTPStatusError
		if asStatusError(err, &statusErr) {
			return domain.SummaryResult{Succeeded: false, ErrorDetail: statusErr.Error()}, nil
		}
		return domain.SummaryResult{}, wrapTemporaryIfNeeded("webhook summarize", err)
	}

	// An empty or contentless 2xx body is the asynchronous-processing
	// acknowledgement: success with no text, never a failure.
	return domain.SummaryResult{Succeeded: true, Text: extractSummary(raw)}, nil
}
