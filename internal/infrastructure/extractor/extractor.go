// Package extractor routes stored documents to a format-specific text
// extractor based on the original filename extension.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/core/ports"
	"github.com/avolkov/docsummary/internal/infrastructure/extractor/pdf"
	"github.com/avolkov/docsummary/internal/infrastructure/extractor/plaintext"
	"github.com/avolkov/docsummary/internal/infrastructure/extractor/spreadsheet"
	"github.com/avolkov/docsummary/internal/infrastructure/extractor/subtitle"
)

type Dispatcher struct {
	byExt    map[string]ports.TextExtractor
	fallback ports.TextExtractor
}

func NewDispatcher(storage ports.ObjectStorage) *Dispatcher {
	plain := plaintext.NewExtractor(storage)
	return &Dispatcher{
		byExt: map[string]ports.TextExtractor{
			".txt":  plain,
			".md":   plain,
			".log":  plain,
			".pdf":  pdf.NewExtractor(storage),
			".srt":  subtitle.NewExtractor(storage),
			".xlsx": spreadsheet.NewExtractor(storage),
		},
		fallback: plain,
	}
}

func (d *Dispatcher) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	impl, ok := d.byExt[ext]
	if !ok {
		impl = d.fallback
	}

	text, err := impl.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract %q: %w", doc.Filename, err)
	}
	return text, nil
}
