package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/infrastructure/resilience"
)

func fastPolicy() resilience.Policy {
	return resilience.Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func newTestClient(url string) *Client {
	return New(url, Options{Policy: fastPolicy(), RateRPS: 1000, Burst: 1000})
}

func TestSummarizeSendsChunkCoordinates(t *testing.T) {
	var got chunkPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("payload is not valid json: %v", err)
		}
		w.Write([]byte(`{"summary":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{
		DocumentName: "report.txt",
		Index:        2,
		Total:        3,
		Text:         "chunk body",
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !res.Succeeded || res.Text != "ok" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got.FileName != "report.txt" || got.Content != "chunk body" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.ChunkNumber != 2 || got.TotalChunks != 3 {
		t.Fatalf("chunk coordinates missing: %+v", got)
	}
	if _, parseErr := time.Parse(time.RFC3339, got.Timestamp); parseErr != nil {
		t.Fatalf("timestamp is not RFC3339: %q", got.Timestamp)
	}
}

func TestSummarizeOmitsCoordinatesForSingleChunk(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &raw)
		w.Write([]byte(`{"summary":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Summarize(context.Background(), domain.Chunk{
		DocumentName: "a.txt", Index: 1, Total: 1, Text: "x",
	}); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if _, ok := raw["chunk_number"]; ok {
		t.Fatalf("single chunk must not carry chunk_number: %v", raw)
	}
	if _, ok := raw["total_chunks"]; ok {
		t.Fatalf("single chunk must not carry total_chunks: %v", raw)
	}
}

func TestSummarizeEmptyBodyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !res.Succeeded {
		t.Fatalf("empty 200 body must be success, got %+v", res)
	}
	if res.Text != "" {
		t.Fatalf("empty body must yield empty text, got %q", res.Text)
	}
}

func TestSummarizeAcceptedStatusIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil || !res.Succeeded {
		t.Fatalf("202 must be success, got res=%+v err=%v", res, err)
	}
}

func TestSummarizeRetriesServerErrorThenFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "worker crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 2, Text: "x"})
	if err != nil {
		t.Fatalf("a terminal status verdict must come back as a failed result, got error %v", err)
	}
	if res.Succeeded {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts for a retryable status, got %d", got)
	}
	if !strings.Contains(res.ErrorDetail, "500") {
		t.Fatalf("failure reason must carry the status, got %q", res.ErrorDetail)
	}
}

func TestSummarizeDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Succeeded {
		t.Fatalf("expected failed result")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", got)
	}
}

func TestSummarizeWebhookNotRegistered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"message":"The requested webhook \"summarize\" is not registered."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Succeeded {
		t.Fatalf("expected failed result")
	}
	if !strings.Contains(res.ErrorDetail, "not registered") {
		t.Fatalf("reason must surface the workflow hint, got %q", res.ErrorDetail)
	}
}

func TestSummarizePlainTextReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("  plain summary text\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Text != "plain summary text" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestSummarizeUnconfiguredURL(t *testing.T) {
	client := New("", Options{Policy: fastPolicy()})
	res, err := client.Summarize(context.Background(), domain.Chunk{DocumentName: "a.txt", Index: 1, Total: 1})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Succeeded || res.ErrorDetail == "" {
		t.Fatalf("missing URL must be a definitive failure, got %+v", res)
	}
}

func TestExtractSummaryShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bare json string", `"  the summary  "`, "the summary"},
		{"summary key", `{"summary":"s"}`, "s"},
		{"fallback key order", `{"output":"o","text":"t"}`, "o"},
		{"later key when earlier empty", `{"summary":"","result":"r"}`, "r"},
		{"null value skipped", `{"summary":null,"text":"t"}`, "t"},
		{"json null", `null`, ""},
		{"empty object", `{}`, ""},
		{"whitespace only", "  \n ", ""},
	}
	for _, tc := range cases {
		if got := extractSummary([]byte(tc.body)); got != tc.want {
			t.Fatalf("%s: extractSummary(%q) = %q, want %q", tc.name, tc.body, got, tc.want)
		}
	}
}

func TestExtractSummaryUnknownObjectFallsBackToJSON(t *testing.T) {
	got := extractSummary([]byte(`{"status":"queued"}`))
	if !strings.Contains(got, `"status"`) || !strings.Contains(got, "queued") {
		t.Fatalf("unknown object must round-trip as json, got %q", got)
	}
}
