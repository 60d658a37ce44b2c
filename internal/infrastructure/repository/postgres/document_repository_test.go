package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkov/docsummary/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansStatsAndFailures(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "summary",
		"chunks_total", "chunks_content", "chunks_empty", "chunks_failed", "chunk_failures",
		"status", "error_message", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "notes.txt", "text/plain", "doc-1_notes.txt", "the summary",
		3, 2, 0, 1, []byte(`[{"index":2,"reason":"timeout"}]`),
		"ready", "", now, now,
	)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusReady || doc.Summary != "the summary" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Stats == nil {
		t.Fatalf("expected stats for processed document")
	}
	if doc.Stats.TotalChunks != 3 || doc.Stats.FailureCount != 1 {
		t.Fatalf("unexpected stats: %+v", doc.Stats)
	}
	if len(doc.Stats.Failures) != 1 || doc.Stats.Failures[0].Index != 2 {
		t.Fatalf("unexpected failures: %+v", doc.Stats.Failures)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDOmitsStatsBeforeProcessing(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "summary",
		"chunks_total", "chunks_content", "chunks_empty", "chunks_failed", "chunk_failures",
		"status", "error_message", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "notes.txt", "text/plain", "doc-1_notes.txt", "",
		0, 0, 0, 0, []byte(`[]`),
		"uploaded", "", now, now,
	)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Stats != nil {
		t.Fatalf("unprocessed document must carry no stats, got %+v", doc.Stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryPersistsStats(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs(
			"doc-1", "combined text",
			3, 2, 0, 1,
			[]byte(`[{"index":2,"reason":"timeout"}]`), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveSummary(context.Background(), "doc-1", "combined text", domain.SummaryStats{
		TotalChunks:  3,
		ContentCount: 2,
		FailureCount: 1,
		Failures:     []domain.ChunkFailure{{Index: 2, Reason: "timeout"}},
	})
	if err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryMarshalsNilFailuresAsEmptyArray(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "", 2, 0, 2, 0, []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveSummary(context.Background(), "doc-1", "", domain.SummaryStats{
		TotalChunks: 2,
		EmptyCount:  2,
	})
	if err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", "x", 1, 1, 0, 0, []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveSummary(context.Background(), "missing", "x", domain.SummaryStats{
		TotalChunks:  1,
		ContentCount: 1,
	})
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
