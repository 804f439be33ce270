package annotate

import (
	"context"
	"testing"
	"time"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "annotate" {
		t.Errorf("expected name 'annotate', got %q", New().Name())
	}
}

func TestProcessor_Process_StampsMetadata(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	p := NewWithClock(func() time.Time { return fixed })

	doc := &domain.Document{
		URI:      "https://example.edu/handbook.pdf",
		Title:    "Student Handbook",
		Metadata: map[string]string{KeySourceType: "pdf"},
	}
	chunks := []domain.Chunk{
		{ID: "a", Content: "first chunk"},
		{ID: "b", Content: "second chunk", Metadata: map[string]string{"existing": "kept"}},
	}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(out))
	}

	first := out[0].Metadata
	if first[KeySourceURL] != doc.URI {
		t.Errorf("expected sourceUrl %q, got %q", doc.URI, first[KeySourceURL])
	}
	if first[KeyTitle] != "Student Handbook" {
		t.Errorf("unexpected title: %q", first[KeyTitle])
	}
	if first[KeySourceType] != "pdf" {
		t.Errorf("unexpected sourceType: %q", first[KeySourceType])
	}
	if first[KeyChunkIndex] != "0" || first[KeyTotalChunks] != "2" {
		t.Errorf("unexpected position metadata: index %q of %q", first[KeyChunkIndex], first[KeyTotalChunks])
	}
	if first[KeyProcessedAt] != "2025-03-14T09:30:00Z" {
		t.Errorf("unexpected processedAt: %q", first[KeyProcessedAt])
	}
	if first[KeyContent] != "first chunk" {
		t.Errorf("expected chunk text mirrored into metadata, got %q", first[KeyContent])
	}

	second := out[1].Metadata
	if second["existing"] != "kept" {
		t.Error("expected existing metadata to survive annotation")
	}
	if second[KeyChunkIndex] != "1" {
		t.Errorf("expected index 1, got %q", second[KeyChunkIndex])
	}
}

func TestProcessor_Process_NoChunks(t *testing.T) {
	p := New()
	doc := &domain.Document{URI: "https://example.edu/empty"}

	out, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no chunks, got %d", len(out))
	}
}

func TestProcessor_Process_MissingSourceType(t *testing.T) {
	p := New()
	doc := &domain.Document{URI: "https://example.edu/doc", Title: "Doc"}
	chunks := []domain.Chunk{{ID: "a", Content: "text"}}

	out, err := p.Process(context.Background(), doc, chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out[0].Metadata[KeySourceType]; ok {
		t.Error("expected sourceType to be absent when the document carries none")
	}
}
