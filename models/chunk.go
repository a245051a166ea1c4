package models

import "time"

// ChunkDocument is one indexed slice of extracted page text together with its
// embedding. Chunks are immutable once indexed; a re-crawl replaces all chunks
// of the project.
type ChunkDocument struct {
	ProjectID string    `bson:"project_id" json:"project_id"`
	URL       string    `bson:"url" json:"url"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Embedding []float32 `bson:"embedding" json:"embedding"`
	CrawledAt time.Time `bson:"crawled_at" json:"crawled_at"`
}

// SearchResult is a ranked hit from the hybrid index. Score combines the
// lexical and vector signals and is also used as a relevance threshold by the
// QA engine.
type SearchResult struct {
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}
