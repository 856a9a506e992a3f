package conversation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/wolfman30/campus-guide-ai/internal/retrieval"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

var roomCodeRe = regexp.MustCompile(`\b[bB]\d+-\d+\b`)

// placeMentionKeywords are the named places recognized inside free-text reviews.
var placeMentionKeywords = []string{
	"dunkin", "subway", "saldwich", "maps cafe", "cafeteria",
	"prayer room", "toilet", "elevator", "reception",
	"دانكن", "صب واي", "مقهى", "كافتيريا", "مصلى", "دورة مياه",
}

// Place is a resolved location.
type Place struct {
	ID   string
	Name string
}

// PlaceLookup resolves free text to a single place.
type PlaceLookup interface {
	Lookup(ctx context.Context, query string, lang ResponseLang) (Place, bool)
}

// extractPlaceMentions lists lookup candidates found in text: room codes first, then
// named places in keyword order.
func extractPlaceMentions(text string) []string {
	var out []string
	if code := roomCodeRe.FindString(text); code != "" {
		out = append(out, strings.ToUpper(code))
	}
	lower := strings.ToLower(text)
	for _, keyword := range placeMentionKeywords {
		if strings.Contains(lower, keyword) {
			out = append(out, keyword)
		}
	}
	return out
}

// SearchPlaceLookup resolves places with a direct vector search, bypassing the tiered
// retriever. The top hit must carry a place_id.
type SearchPlaceLookup struct {
	searcher retrieval.Searcher
	k        int
	timeout  time.Duration
	logger   *logging.Logger
}

func NewSearchPlaceLookup(searcher retrieval.Searcher, timeout time.Duration, logger *logging.Logger) *SearchPlaceLookup {
	if searcher == nil {
		panic("conversation: place lookup searcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SearchPlaceLookup{searcher: searcher, k: 4, timeout: timeout, logger: logger}
}

func (l *SearchPlaceLookup) Lookup(ctx context.Context, query string, lang ResponseLang) (Place, bool) {
	query = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(query), "?!.؟"))
	if query == "" {
		return Place{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	docs, err := l.searcher.Search(ctx, query, lang.retrievalLanguage(), l.k)
	if err != nil {
		l.logger.Warn("place lookup failed", "query", query, "error", err)
		return Place{}, false
	}
	if len(docs) == 0 || docs[0].PlaceID() == "" {
		return Place{}, false
	}
	name := docs[0].Name()
	if name == "" {
		name = query
	}
	return Place{ID: docs[0].PlaceID(), Name: name}, true
}
