package subtitle

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/avolkov/docsummary/internal/core/domain"
)

type storageStub struct {
	body string
}

func (s *storageStub) Save(context.Context, string, io.Reader) error { return nil }

func (s *storageStub) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func TestExtractDropsCueNumbersAndTimings(t *testing.T) {
	srt := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:03,500",
		"Hello there.",
		"",
		"2",
		"00:00:04,000 --> 00:00:07,000",
		"Two lines of",
		"dialogue here.",
		"",
	}, "\n")

	e := NewExtractor(&storageStub{body: srt})
	text, err := e.Extract(context.Background(), &domain.Document{StoragePath: "k"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "Hello there.\nTwo lines of\ndialogue here."
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
}

func TestExtractKeepsNumericDialogueOnlyWhenNotACue(t *testing.T) {
	// A bare number is indistinguishable from a cue index and is
	// dropped; numbers embedded in a sentence survive.
	srt := "1\n00:00:01,000 --> 00:00:02,000\nRoom 101 is ready.\n"
	e := NewExtractor(&storageStub{body: srt})

	text, err := e.Extract(context.Background(), &domain.Document{StoragePath: "k"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Room 101 is ready." {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractEmptyFile(t *testing.T) {
	e := NewExtractor(&storageStub{body: ""})
	text, err := e.Extract(context.Background(), &domain.Document{StoragePath: "k"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}
