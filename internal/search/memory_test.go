package search

import (
	"context"
	"testing"

	"elasti/models"
)

func TestMemoryIndexProjectScoping(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	err := index.IndexChunks(ctx, []models.ChunkDocument{
		chunk(t, "alpha", "https://alpha.example/", "alpha project content about widgets"),
		chunk(t, "beta", "https://beta.example/", "beta project content about widgets"),
	})
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}

	results, err := index.Search(ctx, "alpha", embed(t, "widgets"), "widgets", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].URL != "https://alpha.example/" {
		t.Errorf("cross-project leak: got %s", results[0].URL)
	}
}

func TestMemoryIndexDeleteProject(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	index.IndexChunks(ctx, []models.ChunkDocument{
		chunk(t, "alpha", "https://alpha.example/", "some content"),
		chunk(t, "beta", "https://beta.example/", "other content"),
	})

	if err := index.DeleteProject(ctx, "alpha"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	count, err := index.CountProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("alpha count after delete: got %d, want 0", count)
	}

	count, _ = index.CountProject(ctx, "beta")
	if count != 1 {
		t.Errorf("beta count: got %d, want 1", count)
	}
}

func TestMemoryIndexListProject(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	docs := []models.ChunkDocument{
		chunk(t, "alpha", "https://alpha.example/a", "page a content"),
		chunk(t, "alpha", "https://alpha.example/b", "page b content"),
	}
	index.IndexChunks(ctx, docs)

	listed, err := index.ListProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d chunks, want 2", len(listed))
	}

	// Mutating the returned slice must not affect the index
	listed[0].Content = "mutated"
	again, _ := index.ListProject(ctx, "alpha")
	if again[0].Content == "mutated" {
		t.Error("ListProject returned the internal slice")
	}
}

func TestMemoryIndexSearchEmptyProject(t *testing.T) {
	index := NewMemoryIndex()

	results, err := index.Search(context.Background(), "ghost", embed(t, "anything"), "anything", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %v, want no results", results)
	}
}
