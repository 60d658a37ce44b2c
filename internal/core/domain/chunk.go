package domain

// Chunk is one bounded-size piece of a document submitted as a single
// remote request. Index and Total are 1-based; Total is fixed once
// splitting completes and chunks are never reordered after that.
type Chunk struct {
	DocumentName string
	Index        int
	Total        int
	Text         string
}

// SummaryResult is the raw verdict of one remote summarizer call.
// Succeeded reports transport/application success only; Text may still
// be empty on success when the endpoint acknowledges asynchronously.
type SummaryResult struct {
	Succeeded   bool
	Text        string
	ErrorDetail string
}

type OutcomeKind string

const (
	// OutcomeContent: the call succeeded and returned usable text.
	OutcomeContent OutcomeKind = "content"
	// OutcomeEmpty: the call succeeded but returned no text. This is
	// "processing, not failure" and never an error.
	OutcomeEmpty OutcomeKind = "empty"
	// OutcomeFailure: the call reported an error or a bad status.
	OutcomeFailure OutcomeKind = "failure"
)

// ChunkOutcome is the classified result of processing one chunk.
// Exactly one of Text (content) or Reason (failure) is meaningful.
type ChunkOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

func ContentOutcome(text string) ChunkOutcome {
	return ChunkOutcome{Kind: OutcomeContent, Text: text}
}

func EmptyOutcome() ChunkOutcome {
	return ChunkOutcome{Kind: OutcomeEmpty}
}

func FailureOutcome(reason string) ChunkOutcome {
	return ChunkOutcome{Kind: OutcomeFailure, Reason: reason}
}

// ChunkFailure records which chunk failed and the most specific
// diagnostic the remote call supplied.
type ChunkFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SummaryStats is the diagnostic aggregate a caller uses to build a
// user-facing warning; it is data, not formatted prose.
type SummaryStats struct {
	TotalChunks  int            `json:"total_chunks"`
	ContentCount int            `json:"content_count"`
	EmptyCount   int            `json:"empty_count"`
	FailureCount int            `json:"failure_count"`
	Failures     []ChunkFailure `json:"failures,omitempty"`
}

// RunStatus is the terminal classification of one pipeline run.
type RunStatus string

const (
	// RunCompleted: at least one chunk produced content, or nothing
	// failed (an all-empty run is completed, not failed).
	RunCompleted RunStatus = "completed"
	// RunAllFailed: zero content outcomes and at least one failure.
	RunAllFailed RunStatus = "all_failed"
	// RunCancelled: the caller requested cancellation between chunks;
	// partial outcomes are still returned.
	RunCancelled RunStatus = "cancelled"
)

// PipelineResult is the end state of one run over a document.
// Outcomes are index-aligned with the chunk sequence.
type PipelineResult struct {
	DocumentName string         `json:"document_name"`
	Status       RunStatus      `json:"status"`
	Outcomes     []ChunkOutcome `json:"outcomes"`
	Combined     string         `json:"combined"`
	Stats        SummaryStats   `json:"stats"`
}

// ChunkProgress is emitted exactly once per chunk, in dispatch order.
type ChunkProgress struct {
	DocumentName string
	Index        int
	Total        int
	Outcome      OutcomeKind
}
