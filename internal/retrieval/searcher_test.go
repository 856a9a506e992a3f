package retrieval

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

type stubEmbedder struct {
	nextVectors [][]float32
	err         error
	models      []string
}

func (s *stubEmbedder) Embed(_ context.Context, modelID string, texts []string) ([][]float32, error) {
	s.models = append(s.models, modelID)
	if s.err != nil {
		return nil, s.err
	}
	return s.nextVectors, nil
}

func TestMemorySearcherRanksAndFiltersByLanguage(t *testing.T) {
	embedder := &stubEmbedder{}
	searcher := NewMemorySearcher(embedder, "amazon.titan-embed-text-v2:0", logging.Default())

	embedder.nextVectors = [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}}
	err := searcher.AddDocuments(context.Background(), []Document{
		{Content: "Dunkin", Metadata: map[string]string{MetaLang: "en"}},
		{Content: "Library", Metadata: map[string]string{MetaLang: "en"}},
		{Content: "دانكن", Metadata: map[string]string{MetaLang: "ar"}},
	})
	require.NoError(t, err)

	embedder.nextVectors = [][]float32{{1, 0}}
	docs, err := searcher.Search(context.Background(), "coffee", English, 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Dunkin", docs[0].Content)

	embedder.nextVectors = [][]float32{{1, 0}}
	docs, err = searcher.Search(context.Background(), "coffee", LanguageAny, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Dunkin", docs[0].Content)
	assert.Equal(t, "دانكن", docs[1].Content)
}

func TestMemorySearcherEmbeddingError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("boom")}
	searcher := NewMemorySearcher(embedder, "model", logging.Default())

	assert.Error(t, searcher.AddDocuments(context.Background(), []Document{{Content: "a"}}))
	_, err := searcher.Search(context.Background(), "a", English, 1)
	assert.Error(t, err)
}

func TestMemorySearcherSizeMismatch(t *testing.T) {
	embedder := &stubEmbedder{nextVectors: [][]float32{{1}}}
	searcher := NewMemorySearcher(embedder, "model", logging.Default())

	err := searcher.AddDocuments(context.Background(), []Document{{Content: "a"}, {Content: "b"}})
	assert.Error(t, err)
}

func newMockSearcher(t *testing.T, embedder Embedder) (*PgvectorSearcher, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPgvectorSearcher(sqlx.NewDb(db, "postgres"), embedder, "model"), mock
}

func TestPgvectorSearcherSearch(t *testing.T) {
	embedder := &stubEmbedder{nextVectors: [][]float32{{0.1, 0.2, 0.3}}}
	searcher, mock := newMockSearcher(t, embedder)

	rows := sqlmock.NewRows([]string{"content", "metadata"}).
		AddRow("Dunkin is near the entrance.", []byte(`{"place_id":"DUNKIN","floor":1,"open":true,"lang":"en"}`)).
		AddRow("Subway is in the food court.", []byte(`{"place_id":"SUBWAY","note":null}`))
	mock.ExpectQuery(regexp.QuoteMeta("FROM place_documents")).
		WithArgs(sqlmock.AnyArg(), "en", 6).
		WillReturnRows(rows)

	docs, err := searcher.Search(context.Background(), "coffee", English, 6)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "DUNKIN", docs[0].PlaceID())
	assert.Equal(t, "1", docs[0].Meta(MetaFloor))
	assert.Equal(t, "true", docs[0].Meta("open"))
	_, hasNote := docs[1].Metadata["note"]
	assert.False(t, hasNote)
	assert.Equal(t, []string{"model"}, embedder.models)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgvectorSearcherUnfilteredPassesEmptyLanguage(t *testing.T) {
	embedder := &stubEmbedder{nextVectors: [][]float32{{1}}}
	searcher, mock := newMockSearcher(t, embedder)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY embedding <=> $1")).
		WithArgs(sqlmock.AnyArg(), "", 3).
		WillReturnRows(sqlmock.NewRows([]string{"content", "metadata"}))

	docs, err := searcher.Search(context.Background(), "anything", LanguageAny, 3)
	require.NoError(t, err)
	assert.Empty(t, docs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgvectorSearcherQueryError(t *testing.T) {
	embedder := &stubEmbedder{nextVectors: [][]float32{{1}}}
	searcher, mock := newMockSearcher(t, embedder)

	mock.ExpectQuery(regexp.QuoteMeta("FROM place_documents")).WillReturnError(errors.New("db down"))

	_, err := searcher.Search(context.Background(), "x", Arabic, 2)
	assert.ErrorContains(t, err, "db down")
}

func TestPgvectorSearcherAddDocuments(t *testing.T) {
	embedder := &stubEmbedder{nextVectors: [][]float32{{1, 2}}}
	searcher, mock := newMockSearcher(t, embedder)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO place_documents")).
		WithArgs("Prayer room, floor 2", sqlmock.AnyArg(), "en", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := searcher.AddDocuments(context.Background(), []Document{
		{Content: "Prayer room, floor 2", Metadata: map[string]string{MetaLang: "en", MetaPlaceID: "PRAYER-2"}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
