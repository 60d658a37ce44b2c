// Package subtitle extracts spoken text from SubRip (.srt) files by
// dropping cue numbers and timing lines.
package subtitle

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/avolkov/docsummary/internal/core/domain"
	"github.com/avolkov/docsummary/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isCueNumber(line) || isTimingLine(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan subtitle file: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

func isCueNumber(line string) bool {
	_, err := strconv.Atoi(line)
	return err == nil
}

func isTimingLine(line string) bool {
	return strings.Contains(line, "-->")
}
