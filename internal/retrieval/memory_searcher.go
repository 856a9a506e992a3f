package retrieval

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// MemorySearcher keeps embeddings in memory and ranks by cosine similarity.
// It backs local development and tests when no pgvector database is configured.
type MemorySearcher struct {
	embedder Embedder
	model    string
	logger   *logging.Logger

	mu   sync.RWMutex
	docs []indexedDocument
}

type indexedDocument struct {
	doc       Document
	embedding []float32
}

func NewMemorySearcher(embedder Embedder, model string, logger *logging.Logger) *MemorySearcher {
	if embedder == nil {
		panic("retrieval: embedder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemorySearcher{
		embedder: embedder,
		model:    model,
		logger:   logger,
	}
}

// AddDocuments embeds and indexes docs.
func (s *MemorySearcher) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	vectors, err := s.embedder.Embed(ctx, s.model, contents)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return errors.New("retrieval: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range docs {
		s.docs = append(s.docs, indexedDocument{doc: doc, embedding: vectors[i]})
	}
	s.logger.Debug("indexed documents", "count", len(docs), "total", len(s.docs))
	return nil
}

// Search returns the k nearest documents, restricted to lang when set.
func (s *MemorySearcher) Search(ctx context.Context, query string, lang Language, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}
	vectors, err := s.embedder.Embed(ctx, s.model, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	type scored struct {
		score float64
		doc   Document
	}

	s.mu.RLock()
	results := make([]scored, 0, len(s.docs))
	for _, item := range s.docs {
		if lang != LanguageAny && item.doc.Meta(MetaLang) != string(lang) {
			continue
		}
		results = append(results, scored{score: cosineSimilarity(queryVec, item.embedding), doc: item.doc})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > k {
		results = results[:k]
	}
	out := make([]Document, len(results))
	for i, r := range results {
		out[i] = r.doc
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
