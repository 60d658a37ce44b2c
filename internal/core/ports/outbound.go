package ports

import (
	"context"
	"io"

	"github.com/avolkov/docsummary/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveSummary(ctx context.Context, id string, summary string, stats domain.SummaryStats) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes summarize requests.
type MessageQueue interface {
	PublishSummarizeRequested(ctx context.Context, documentID string) error
	SubscribeSummarizeRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits oversized text into bounded, ordered pieces whose
// concatenation reproduces the input exactly.
type Chunker interface {
	Split(text string) []string
}

// Summarizer submits one chunk to the remote endpoint and returns a
// single final verdict per call. Transport retries, if any, happen
// inside the implementation; the pipeline treats the call as atomic.
// A non-nil error means the chunk could not be submitted at all and is
// classified as a failure with the error text as the reason.
type Summarizer interface {
	Summarize(ctx context.Context, chunk domain.Chunk) (domain.SummaryResult, error)
}

// ProgressFunc observes per-chunk completion, fired exactly once per
// chunk in dispatch order. A nil ProgressFunc is valid.
type ProgressFunc func(p domain.ChunkProgress)
