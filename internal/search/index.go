// Package search stores chunk documents with their embeddings and serves
// project-scoped hybrid queries: a lexical match against chunk content blended
// with vector similarity against the embedding, combined into one relevance
// score. Lexical matching keeps precision for exact keyword queries where the
// hashing-fallback embeddings are weak; vector similarity recovers paraphrase
// queries.
package search

import (
	"context"
	"fmt"

	"elasti/internal/config"
	"elasti/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Index persists chunks and serves hybrid retrieval. Writes are visible to
// immediately subsequent reads.
type Index interface {
	// IndexChunks bulk-inserts the documents.
	IndexChunks(ctx context.Context, chunks []models.ChunkDocument) error
	// Search ranks the project's chunks against the query and returns up to
	// limit results, best first.
	Search(ctx context.Context, projectID string, queryVector []float32, queryText string, limit int) ([]models.SearchResult, error)
	// ListProject returns every document belonging to the project.
	ListProject(ctx context.Context, projectID string) ([]models.ChunkDocument, error)
	// DeleteProject removes every document belonging to the project.
	DeleteProject(ctx context.Context, projectID string) error
	// CountProject reports how many documents the project currently has.
	CountProject(ctx context.Context, projectID string) (int64, error)
}

// NewIndex selects the index backend from configuration.
func NewIndex(cfg *config.Config, mongoClient *mongo.Client) (Index, error) {
	switch cfg.IndexBackend {
	case "mongo":
		if mongoClient == nil {
			return nil, fmt.Errorf("mongo index backend requires a MongoDB connection")
		}
		return NewMongoIndex(mongoClient.Database(cfg.DBName).Collection(cfg.ChunkCollection)), nil
	case "memory":
		return NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unknown index backend: %s", cfg.IndexBackend)
	}
}
