package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/core/ports"
)

// ProcessDocumentUseCase runs the summarization pipeline for a stored
// document and records the result: uploaded -> processing -> ready,
// failed or cancelled. Partial chunk failures still produce a ready
// document with the failures reported in stats; only an all-failed run
// marks the document failed.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	pipeline  ports.SummaryPipeline
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	pipeline ports.SummaryPipeline,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		pipeline:  pipeline,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveSummary(ctx, documentID, result.Combined, result.Stats); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save summary: %w", err)
	}

	switch result.Status {
	case domain.RunCancelled:
		if err := uc.markStatus(ctx, documentID, domain.StatusCancelled, ""); err != nil {
			return fmt.Errorf("set status=cancelled: %w", err)
		}
		return nil
	case domain.RunAllFailed:
		reason := failureDigest(result.Stats)
		if err := uc.markStatus(ctx, documentID, domain.StatusFailed, reason); err != nil {
			return fmt.Errorf("set status=failed: %w", err)
		}
		return domain.WrapError(domain.ErrAllChunksFailed, "process document", errors.New(reason))
	default:
		if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
			return fmt.Errorf("set status=ready: %w", err)
		}
		return nil
	}
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (domain.PipelineResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.PipelineResult{}, domain.WrapError(
			domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"),
		)
	}

	result, err := uc.pipeline.Run(ctx, domain.SourceContent{Name: doc.Filename, Content: text})
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("run summarization pipeline: %w", err)
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}

// failureDigest flattens per-chunk failure reasons into one message
// suitable for the document's error column.
func failureDigest(stats domain.SummaryStats) string {
	parts := make([]string, 0, len(stats.Failures))
	for _, f := range stats.Failures {
		parts = append(parts, fmt.Sprintf("chunk %d: %s", f.Index, f.Reason))
	}
	return fmt.Sprintf("all %d chunks failed: %s", stats.TotalChunks, strings.Join(parts, "; "))
}
