package search

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"elasti/models"
)

// MongoIndex persists chunks in a MongoDB collection and ranks the
// project-scoped candidate set in-process. Mongo reads observe prior writes
// immediately, which gives the refresh-to-visible behavior retrieval relies
// on after a crawl.
type MongoIndex struct {
	col *mongo.Collection
}

func NewMongoIndex(col *mongo.Collection) *MongoIndex {
	return &MongoIndex{col: col}
}

func (m *MongoIndex) IndexChunks(ctx context.Context, chunks []models.ChunkDocument) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]interface{}, len(chunks))
	for i := range chunks {
		docs[i] = chunks[i]
	}

	if _, err := m.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}
	return nil
}

func (m *MongoIndex) Search(ctx context.Context, projectID string, queryVector []float32, queryText string, limit int) ([]models.SearchResult, error) {
	cursor, err := m.col.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load project chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []models.ChunkDocument
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode project chunks: %w", err)
	}

	return rankChunks(chunks, queryVector, queryText, limit), nil
}

func (m *MongoIndex) ListProject(ctx context.Context, projectID string) ([]models.ChunkDocument, error) {
	cursor, err := m.col.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load project chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []models.ChunkDocument
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode project chunks: %w", err)
	}
	return chunks, nil
}

func (m *MongoIndex) DeleteProject(ctx context.Context, projectID string) error {
	if _, err := m.col.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete project chunks: %w", err)
	}
	return nil
}

func (m *MongoIndex) CountProject(ctx context.Context, projectID string) (int64, error) {
	count, err := m.col.CountDocuments(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count project chunks: %w", err)
	}
	return count, nil
}
