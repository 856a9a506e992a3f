package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const searchDocumentsQuery = `
SELECT content, metadata
FROM place_documents
WHERE ($2 = '' OR lang = $2)
ORDER BY embedding <=> $1
LIMIT $3`

const insertDocumentQuery = `
INSERT INTO place_documents (content, metadata, lang, embedding)
VALUES ($1, $2, $3, $4)`

// PgvectorSearcher runs nearest-neighbour queries against the place_documents table.
type PgvectorSearcher struct {
	db       *sqlx.DB
	embedder Embedder
	model    string
}

type documentRow struct {
	Content  string `db:"content"`
	Metadata []byte `db:"metadata"`
}

// OpenPgvectorSearcher connects to Postgres with the lib/pq driver.
func OpenPgvectorSearcher(dsn string, embedder Embedder, model string) (*PgvectorSearcher, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("retrieval: connect pgvector: %w", err)
	}
	return NewPgvectorSearcher(db, embedder, model), nil
}

func NewPgvectorSearcher(db *sqlx.DB, embedder Embedder, model string) *PgvectorSearcher {
	if db == nil {
		panic("retrieval: db cannot be nil")
	}
	if embedder == nil {
		panic("retrieval: embedder cannot be nil")
	}
	return &PgvectorSearcher{db: db, embedder: embedder, model: model}
}

func (s *PgvectorSearcher) Search(ctx context.Context, query string, lang Language, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}
	vectors, err := s.embedder.Embed(ctx, s.model, []string{query})
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("retrieval: embedder returned no vectors")
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, searchDocumentsQuery, pgvector.NewVector(vectors[0]), string(lang), k); err != nil {
		return nil, fmt.Errorf("retrieval: search documents: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		meta, err := decodeMetadata(row.Metadata)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Content: row.Content, Metadata: meta})
	}
	return docs, nil
}

// AddDocuments embeds and inserts docs in a single transaction.
func (s *PgvectorSearcher) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	vectors, err := s.embedder.Embed(ctx, s.model, contents)
	if err != nil {
		return fmt.Errorf("retrieval: embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return errors.New("retrieval: embedding response size mismatch")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("retrieval: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, doc := range docs {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("retrieval: marshal metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertDocumentQuery, doc.Content, meta, doc.Meta(MetaLang), pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("retrieval: insert document: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PgvectorSearcher) Close() error {
	return s.db.Close()
}

// decodeMetadata flattens the JSONB metadata column into string values.
func decodeMetadata(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("retrieval: decode metadata: %w", err)
	}
	meta := make(map[string]string, len(generic))
	for k, v := range generic {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			meta[k] = val
		case float64:
			meta[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			meta[k] = strconv.FormatBool(val)
		default:
			encoded, _ := json.Marshal(val)
			meta[k] = string(encoded)
		}
	}
	return meta, nil
}
