package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
	StatusCancelled  DocumentStatus = "cancelled"
)

type Document struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Summary     string         `json:"summary,omitempty"`
	Stats       *SummaryStats  `json:"stats,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SourceContent is the in-memory input to the summarization pipeline:
// an identifier plus the already-extracted text.
type SourceContent struct {
	Name    string
	Content string
}

// Chunk size bounds in characters. Configured values outside the range
// are clamped at construction, never at dispatch time.
const (
	MinChunkSize     = 5_000
	DefaultChunkSize = 50_000
	MaxChunkSize     = 100_000
)

// ChunkSize is the maximum number of characters submitted per remote
// request. Construct via NewChunkSize so the bounds hold.
type ChunkSize int

func NewChunkSize(n int) ChunkSize {
	switch {
	case n <= 0:
		return DefaultChunkSize
	case n < MinChunkSize:
		return MinChunkSize
	case n > MaxChunkSize:
		return MaxChunkSize
	default:
		return ChunkSize(n)
	}
}

func (s ChunkSize) Int() int { return int(s) }
