package retrieval

import "context"

// Language is the language filter applied to a search. LanguageAny disables filtering.
type Language string

const (
	LanguageAny Language = ""
	English     Language = "en"
	Arabic      Language = "ar"
)

// Metadata keys written by the indexing pipeline.
const (
	MetaPlaceID    = "place_id"
	MetaName       = "name"
	MetaNameAr     = "name_ar"
	MetaFloor      = "floor"
	MetaBuilding   = "building"
	MetaCorridor   = "corridor"
	MetaCategory   = "category"
	MetaLang       = "lang"
	MetaBootcampID = "bootcamp_id"
)

// Document is a single ranked hit from the knowledge base.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Meta returns the metadata value for key, or "" when absent.
func (d Document) Meta(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

func (d Document) PlaceID() string { return d.Meta(MetaPlaceID) }

func (d Document) Name() string { return d.Meta(MetaName) }

// Searcher is the vector-search capability the retriever is built on.
type Searcher interface {
	Search(ctx context.Context, query string, lang Language, k int) ([]Document, error)
}

// Translator converts a query to English before an English-filtered search.
type Translator interface {
	TranslateToEnglish(ctx context.Context, text string) (string, error)
}
