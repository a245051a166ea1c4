package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"elasti/internal/config"
	"elasti/internal/logger"
)

// Embedder turns texts into fixed-length vectors. Implementations must
// preserve input order and cardinality.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Embed1 is the singleton convenience wrapper around Embed.
func Embed1(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// NewEmbedder selects the embedding implementation once at startup: the
// Gemini model when a provider and key are configured, otherwise the
// deterministic hashing fallback. The fallback works fully offline but at
// reduced retrieval quality, so the downgrade is logged loudly.
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	if cfg.EmbeddingsProvider == "gemini" && cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return &GeminiEmbedder{
			client: client,
			model:  cfg.GoogleEmbeddingsModel,
			dims:   cfg.VectorDimensions,
		}, nil
	}

	logger.Warn("Using hashing bag-of-words embeddings - search quality will be poor. Set EMBEDDING_PROVIDER=gemini and GEMINI_API_KEY for model embeddings",
		"provider", cfg.EmbeddingsProvider)
	return NewHashingEmbedder(cfg.VectorDimensions), nil
}

// GeminiEmbedder calls the Google embedding model once per input text; the
// API exposes no batch call.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dims   int
}

func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	model := g.client.EmbeddingModel(g.model)

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		if resp.Embedding == nil {
			return nil, fmt.Errorf("no embedding returned")
		}
		vectors = append(vectors, resp.Embedding.Values)
	}
	return vectors, nil
}

func (g *GeminiEmbedder) Dimensions() int { return g.dims }

func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}

// HashingEmbedder is a deterministic bag-of-words embedding: each token's
// 32-bit polynomial hash selects a dimension that is incremented, and the
// result is L2-normalized. Identical input produces bit-identical output
// across runs, which makes fully offline operation and testing possible.
type HashingEmbedder struct {
	dims int
}

func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = 768
	}
	return &HashingEmbedder{dims: dims}
}

func (h *HashingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = h.embedOne(text)
	}
	return vectors, nil
}

func (h *HashingEmbedder) Dimensions() int { return h.dims }

func (h *HashingEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, h.dims)

	for _, word := range Tokenize(text) {
		var hash int32
		for _, r := range word {
			hash = hash*31 + int32(r)
		}
		if hash == math.MinInt32 {
			hash = 0
		} else if hash < 0 {
			hash = -hash
		}
		vec[int(hash)%h.dims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	// Zero vector stays zero for empty or punctuation-only input.

	return vec
}

// Tokenize lowercases the text, strips punctuation and splits on whitespace.
// Shared by the hashing embedder and the lexical side of the hybrid index so
// both see the same terms.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	return strings.Fields(cleaned)
}
