package search

import (
	"math"
	"sort"

	"elasti/internal/ai"
	"elasti/models"
)

// BM25 parameters, standard values.
const (
	bm25K1 = 1.2
	bm25B  = 0.75

	// Weight of the lexical signal relative to the vector signal.
	lexicalBoost = 0.3
)

// rankChunks scores every candidate chunk against the query and returns the
// top limit results. The score is additive across the two signals, mirroring
// OR semantics: a document matching only one signal still ranks.
func rankChunks(chunks []models.ChunkDocument, queryVector []float32, queryText string, limit int) []models.SearchResult {
	if len(chunks) == 0 || limit <= 0 {
		return nil
	}

	queryTerms := ai.Tokenize(queryText)
	corpus := newBM25Corpus(chunks)

	results := make([]models.SearchResult, 0, len(chunks))
	for i := range chunks {
		lexical := corpus.score(i, queryTerms)
		vector := knnScore(queryVector, chunks[i].Embedding)

		results = append(results, models.SearchResult{
			Content: chunks[i].Content,
			URL:     chunks[i].URL,
			Title:   chunks[i].Title,
			Score:   lexicalBoost*lexical + vector,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// knnScore converts cosine similarity into the 1/(1+distance) form, with
// distance = 1 - cosine, so the vector contribution lies in (0, 1].
func knnScore(query, doc []float32) float64 {
	cos := cosineSimilarity(query, doc)
	return 1.0 / (1.0 + (1.0 - cos))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// bm25Corpus holds per-query term statistics over the project's candidate set.
// The corpus is small (one page-capped project) so building it per search is
// cheap and keeps the index free of persistent lexical state.
type bm25Corpus struct {
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
}

func newBM25Corpus(chunks []models.ChunkDocument) *bm25Corpus {
	c := &bm25Corpus{
		termFreqs: make([]map[string]int, len(chunks)),
		docLens:   make([]int, len(chunks)),
		docFreq:   make(map[string]int),
	}

	var totalLen int
	for i := range chunks {
		terms := ai.Tokenize(chunks[i].Content)
		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		c.termFreqs[i] = tf
		c.docLens[i] = len(terms)
		totalLen += len(terms)

		for t := range tf {
			c.docFreq[t]++
		}
	}

	if len(chunks) > 0 {
		c.avgDocLen = float64(totalLen) / float64(len(chunks))
	}
	return c
}

func (c *bm25Corpus) score(doc int, queryTerms []string) float64 {
	if c.avgDocLen == 0 {
		return 0
	}

	n := float64(len(c.termFreqs))
	docLen := float64(c.docLens[doc])

	var score float64
	for _, term := range queryTerms {
		tf := float64(c.termFreqs[doc][term])
		if tf == 0 {
			continue
		}
		df := float64(c.docFreq[term])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLen/c.avgDocLen))
	}
	return score
}
