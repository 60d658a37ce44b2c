package ports

import (
	"context"
	"io"

	"github.com/avolkov/docsummary/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// SummaryPipeline is the inbound contract for running the chunked
// summarization pipeline over already-extracted content.
type SummaryPipeline interface {
	Run(ctx context.Context, source domain.SourceContent) (domain.PipelineResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
