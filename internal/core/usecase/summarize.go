package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/core/ports"
)

// SummarizeContentUseCase drives one document through splitting,
// strictly sequential chunk dispatch, outcome classification and
// combining. Chunks are never dispatched concurrently: the remote
// endpoint serializes work per client, and sequential dispatch keeps
// the progress contract deterministic and the output trivially in
// submission order.
type SummarizeContentUseCase struct {
	chunker    ports.Chunker
	summarizer ports.Summarizer
	progress   ports.ProgressFunc
}

func NewSummarizeContentUseCase(
	chunker ports.Chunker,
	summarizer ports.Summarizer,
	progress ports.ProgressFunc,
) *SummarizeContentUseCase {
	return &SummarizeContentUseCase{
		chunker:    chunker,
		summarizer: summarizer,
		progress:   progress,
	}
}

// Run executes the full pipeline for one source. Individual chunk
// failures are recorded and do not abort the run. Cancellation is
// honored between chunks only; a returned result with RunCancelled
// still carries every outcome accumulated so far. The error return is
// reserved for internal invariant violations.
func (uc *SummarizeContentUseCase) Run(ctx context.Context, source domain.SourceContent) (domain.PipelineResult, error) {
	texts := uc.chunker.Split(source.Content)
	if len(texts) == 0 {
		return domain.PipelineResult{}, domain.WrapError(
			domain.ErrInvalidInput, "split content", errors.New("splitter produced zero chunks"),
		)
	}

	// Total is fixed here and never changes mid-run.
	total := len(texts)
	outcomes := make([]domain.ChunkOutcome, 0, total)
	cancelled := false

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			cancelled = true
			break
		}

		chunk := domain.Chunk{
			DocumentName: source.Name,
			Index:        i + 1,
			Total:        total,
			Text:         text,
		}

		outcome := uc.dispatch(ctx, chunk)
		outcomes = append(outcomes, outcome)

		if uc.progress != nil {
			uc.progress(domain.ChunkProgress{
				DocumentName: source.Name,
				Index:        chunk.Index,
				Total:        total,
				Outcome:      outcome.Kind,
			})
		}
	}

	combined, stats := domain.Combine(outcomes)
	stats.TotalChunks = total

	status := domain.StatusFor(stats)
	if cancelled {
		status = domain.RunCancelled
	}

	slog.Info("pipeline_run_finished",
		"document", source.Name,
		"status", string(status),
		"chunks_total", total,
		"chunks_content", stats.ContentCount,
		"chunks_empty", stats.EmptyCount,
		"chunks_failed", stats.FailureCount,
	)

	return domain.PipelineResult{
		DocumentName: source.Name,
		Status:       status,
		Outcomes:     outcomes,
		Combined:     combined,
		Stats:        stats,
	}, nil
}

func (uc *SummarizeContentUseCase) dispatch(ctx context.Context, chunk domain.Chunk) domain.ChunkOutcome {
	res, err := uc.summarizer.Summarize(ctx, chunk)
	if err != nil {
		res = domain.SummaryResult{Succeeded: false, ErrorDetail: err.Error()}
	}

	outcome := domain.Classify(res)
	if outcome.Kind == domain.OutcomeFailure {
		slog.Warn("chunk_failed",
			"document", chunk.DocumentName,
			"chunk", chunk.Index,
			"total", chunk.Total,
			"reason", outcome.Reason,
		)
	}
	return outcome
}
