package extractor

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/avolkov/docsummary/internal/core/domain"
)

type memoryStorage struct {
	objects map[string]string
}

func (s *memoryStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = map[string]string{}
	}
	s.objects[key] = string(raw)
	return nil
}

func (s *memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.objects[key])), nil
}

func TestExtractRoutesByExtension(t *testing.T) {
	srt := "1\n00:00:01,000 --> 00:00:03,000\nfirst line\n\n2\n00:00:04,000 --> 00:00:06,000\nsecond line\n"
	storage := &memoryStorage{objects: map[string]string{
		"k-txt": "plain body",
		"k-srt": srt,
	}}
	dispatcher := NewDispatcher(storage)

	text, err := dispatcher.Extract(context.Background(), &domain.Document{
		Filename: "notes.TXT", StoragePath: "k-txt",
	})
	if err != nil {
		t.Fatalf("Extract(txt) error = %v", err)
	}
	if text != "plain body" {
		t.Fatalf("unexpected txt text: %q", text)
	}

	text, err = dispatcher.Extract(context.Background(), &domain.Document{
		Filename: "talk.srt", StoragePath: "k-srt",
	})
	if err != nil {
		t.Fatalf("Extract(srt) error = %v", err)
	}
	if text != "first line\nsecond line" {
		t.Fatalf("unexpected srt text: %q", text)
	}
}

func TestExtractUnknownExtensionFallsBackToPlaintext(t *testing.T) {
	storage := &memoryStorage{objects: map[string]string{"k": "raw body"}}
	dispatcher := NewDispatcher(storage)

	text, err := dispatcher.Extract(context.Background(), &domain.Document{
		Filename: "data.custom", StoragePath: "k",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "raw body" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractWrapsFilenameInError(t *testing.T) {
	storage := &memoryStorage{objects: map[string]string{"k": "\xff\xfe broken"}}
	dispatcher := NewDispatcher(storage)

	_, err := dispatcher.Extract(context.Background(), &domain.Document{
		Filename: "broken.txt", StoragePath: "k",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "broken.txt") {
		t.Fatalf("error must name the file, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
}
