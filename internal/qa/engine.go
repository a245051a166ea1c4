// Package qa answers a question against one project's indexed content and
// suggests related links from explicitly referenced sibling projects.
package qa

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"elasti/internal/ai"
	"elasti/internal/logger"
	"elasti/internal/search"
	"elasti/models"
)

const (
	// How many chunks feed the generation context.
	primaryTopK = 5

	// Cross-reference retrieval: three candidates fetched, only scores above
	// the threshold kept, and a single best link surfaced per project. The
	// threshold separates strong specific matches (around 4.0 in practice)
	// from generic noise (around 2.5).
	crossRefTopK      = 3
	crossRefThreshold = 3.0
)

const fallbackAnswer = "I couldn't find any relevant information to answer your question. Please try rephrasing or ask about a different topic."

// ProjectGetter resolves project records for cross-reference lookups.
type ProjectGetter interface {
	Get(ctx context.Context, id string) (*models.Project, error)
}

// Engine runs the retrieve-then-generate pipeline.
type Engine struct {
	embedder  ai.Embedder
	index     search.Index
	completer ai.Completer
	projects  ProjectGetter
}

func NewEngine(embedder ai.Embedder, index search.Index, completer ai.Completer, projects ProjectGetter) *Engine {
	return &Engine{
		embedder:  embedder,
		index:     index,
		completer: completer,
		projects:  projects,
	}
}

// Answer embeds the question once, retrieves the project's best chunks, and
// generates a grounded answer. With zero retrieved chunks the model is never
// called and a fixed fallback answer is returned. Cross-reference results are
// link suggestions only; they never enter the generation context.
func (e *Engine) Answer(ctx context.Context, projectID, question string) (*models.ChatResponse, error) {
	tracer := otel.Tracer("qa")
	ctx, span := tracer.Start(ctx, "qa.answer")
	defer span.End()
	span.SetAttributes(attribute.String("qa.project_id", projectID))

	questionEmbedding, err := ai.Embed1(ctx, e.embedder, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	chunks, err := e.index.Search(ctx, projectID, questionEmbedding, question, primaryTopK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	span.SetAttributes(attribute.Int("qa.chunks_retrieved", len(chunks)))

	response := &models.ChatResponse{
		Answer:          fallbackAnswer,
		Sources:         []models.Source{},
		CrossReferences: []models.CrossReference{},
	}

	if len(chunks) > 0 {
		answer, err := e.completer.Complete(ctx, buildPrompt(question, chunks))
		if err != nil {
			return nil, fmt.Errorf("completion failed: %w", err)
		}
		response.Answer = answer
		response.Sources = uniqueSources(chunks)
	}

	response.CrossReferences = e.crossReferences(ctx, projectID, questionEmbedding, question)

	return response, nil
}

// buildPrompt numbers each chunk so the model can cite them back.
func buildPrompt(question string, chunks []models.SearchResult) string {
	var context strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[Source %d]: %s", i+1, chunk.Content)
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based on the provided context.
Always base your answers on the context provided. If the context doesn't contain enough information to answer the question, say so.
Be concise and direct. Cite sources when relevant using [Source N] format.

Context:
%s

Question: %s`, context.String(), question)
}

// uniqueSources keeps the first occurrence of each URL in ranked order.
func uniqueSources(chunks []models.SearchResult) []models.Source {
	seen := make(map[string]bool)
	sources := []models.Source{}
	for _, chunk := range chunks {
		if seen[chunk.URL] {
			continue
		}
		seen[chunk.URL] = true
		sources = append(sources, models.Source{URL: chunk.URL, Title: chunk.Title})
	}
	return sources
}

// crossReferences searches each referenced sibling project and surfaces at
// most one strong match per project. Failures in any single reference are
// logged and skipped; they never fail the chat request.
func (e *Engine) crossReferences(ctx context.Context, projectID string, questionEmbedding []float32, question string) []models.CrossReference {
	refs := []models.CrossReference{}

	project, err := e.projects.Get(ctx, projectID)
	if err != nil || project == nil || len(project.CrossReferenceIDs) == 0 {
		return refs
	}

	logger.Debug("Checking cross-references", "project_id", projectID, "count", len(project.CrossReferenceIDs))

	for _, refID := range project.CrossReferenceIDs {
		refProject, err := e.projects.Get(ctx, refID)
		if err != nil || refProject == nil {
			continue
		}

		candidates, err := e.index.Search(ctx, refID, questionEmbedding, question, crossRefTopK)
		if err != nil {
			logger.Warn("Cross-reference search failed", "ref_project_id", refID, "error", err)
			continue
		}

		var relevant []models.SearchResult
		for _, c := range candidates {
			if c.Score > crossRefThreshold {
				relevant = append(relevant, c)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		// Best match only; a list of weak links per sibling is noise.
		refs = append(refs, models.CrossReference{
			Project: refProject.Name,
			Results: uniqueSources(relevant)[:1],
		})
	}

	return refs
}
