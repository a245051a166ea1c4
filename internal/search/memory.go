package search

import (
	"context"
	"sync"

	"elasti/models"
)

// MemoryIndex keeps chunks in process memory. It serves offline development
// (INDEX_BACKEND=memory) and tests; ranking is identical to the Mongo
// backend.
type MemoryIndex struct {
	mu     sync.RWMutex
	chunks map[string][]models.ChunkDocument
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{chunks: make(map[string][]models.ChunkDocument)}
}

func (m *MemoryIndex) IndexChunks(_ context.Context, chunks []models.ChunkDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.ProjectID] = append(m.chunks[c.ProjectID], c)
	}
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, projectID string, queryVector []float32, queryText string, limit int) ([]models.SearchResult, error) {
	m.mu.RLock()
	candidates := make([]models.ChunkDocument, len(m.chunks[projectID]))
	copy(candidates, m.chunks[projectID])
	m.mu.RUnlock()

	return rankChunks(candidates, queryVector, queryText, limit), nil
}

func (m *MemoryIndex) ListProject(_ context.Context, projectID string) ([]models.ChunkDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunks := make([]models.ChunkDocument, len(m.chunks[projectID]))
	copy(chunks, m.chunks[projectID])
	return chunks, nil
}

func (m *MemoryIndex) DeleteProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, projectID)
	return nil
}

func (m *MemoryIndex) CountProject(_ context.Context, projectID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.chunks[projectID])), nil
}
