package chunking

import "github.com/avolkov/docsummary/internal/core/domain"

// Splitter carves text into chunks of at most MaxSize characters,
// preferring to cut at a paragraph break, then a line break, then a
// word boundary. Only an unbroken run longer than MaxSize is cut
// mid-token. Whitespace is preserved everywhere so that concatenating
// the chunks in order reproduces the input exactly.
type Splitter struct {
	MaxSize int
}

func NewSplitter(size domain.ChunkSize) *Splitter {
	return &Splitter{MaxSize: domain.NewChunkSize(size.Int()).Int()}
}

// Split returns the ordered chunk texts. Content that already fits
// returns a single element unchanged; empty content returns a single
// empty chunk rather than zero chunks.
func (s *Splitter) Split(content string) []string {
	runes := []rune(content)
	if len(runes) <= s.MaxSize {
		return []string{content}
	}

	out := make([]string, 0, len(runes)/s.MaxSize+1)
	rest := runes
	for len(rest) > s.MaxSize {
		cut := s.cutPoint(rest)
		out = append(out, string(rest[:cut]))
		rest = rest[cut:]
	}
	return append(out, string(rest))
}

// cutPoint picks where to end the next chunk within the first MaxSize
// runes of rest. The returned index is always in (0, MaxSize].
func (s *Splitter) cutPoint(rest []rune) int {
	// Paragraph break: cut after the last "\n\n" fully in range.
	for i := s.MaxSize - 1; i >= 1; i-- {
		if rest[i] == '\n' && rest[i-1] == '\n' {
			return i + 1
		}
	}
	// Line break.
	for i := s.MaxSize - 1; i >= 0; i-- {
		if rest[i] == '\n' {
			return i + 1
		}
	}
	// Word boundary.
	for i := s.MaxSize - 1; i >= 0; i-- {
		if rest[i] == ' ' {
			return i + 1
		}
	}
	return s.MaxSize
}
