package search

import (
	"context"
	"testing"

	"elasti/internal/ai"
	"elasti/models"
)

var testEmbedder = ai.NewHashingEmbedder(768)

func embed(t *testing.T, text string) []float32 {
	t.Helper()
	vec, err := ai.Embed1(context.Background(), testEmbedder, text)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	return vec
}

func chunk(t *testing.T, projectID, url, content string) models.ChunkDocument {
	t.Helper()
	return models.ChunkDocument{
		ProjectID: projectID,
		URL:       url,
		Title:     url,
		Content:   content,
		Embedding: embed(t, content),
	}
}

func TestRankChunksLexicalMatchWins(t *testing.T) {
	chunks := []models.ChunkDocument{
		chunk(t, "p", "https://a.example/1", "We offer professional landscaping and garden design services."),
		chunk(t, "p", "https://a.example/2", "Our company was founded twenty years ago in another city."),
		chunk(t, "p", "https://a.example/3", "Contact us by phone or email for general enquiries."),
	}

	query := "landscaping services"
	results := rankChunks(chunks, embed(t, query), query, 3)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].URL != "https://a.example/1" {
		t.Errorf("top result is %s, want the landscaping page", results[0].URL)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
}

func TestRankChunksLimit(t *testing.T) {
	var chunks []models.ChunkDocument
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunk(t, "p", "https://a.example/p", "generic page content about things"))
	}

	results := rankChunks(chunks, embed(t, "things"), "things", 4)
	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
}

func TestRankChunksEmptyCandidates(t *testing.T) {
	if results := rankChunks(nil, embed(t, "query"), "query", 5); len(results) != 0 {
		t.Errorf("got %v, want no results", results)
	}
}

func TestKnnScoreBounds(t *testing.T) {
	a := embed(t, "identical text")
	b := embed(t, "identical text")
	if got := knnScore(a, b); got < 0.999 || got > 1.001 {
		t.Errorf("identical vectors: got %v, want 1.0", got)
	}

	// Mismatched or empty vectors degrade to the neutral midpoint, not a panic
	if got := knnScore(a, nil); got != 0.5 {
		t.Errorf("missing doc vector: got %v, want 0.5", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("length mismatch: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: got %v, want 0", got)
	}
}
