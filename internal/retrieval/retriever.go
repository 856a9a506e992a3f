package retrieval

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// Tier records which search stage produced a result.
type Tier string

const (
	TierPrimary    Tier = "primary"
	TierUnfiltered Tier = "unfiltered"
	TierMerged     Tier = "merged"
)

// Config tunes the tiered retriever. Zero values fall back to DefaultConfig.
type Config struct {
	KPrimary         int
	KFallback        int
	MinDocs          int
	MinChars         int
	MaxContextChars  int
	DedupPrefixChars int
	Timeout          time.Duration
}

func DefaultConfig() Config {
	return Config{
		KPrimary:         6,
		KFallback:        6,
		MinDocs:          2,
		MinChars:         250,
		MaxContextChars:  6000,
		DedupPrefixChars: 80,
		Timeout:          10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.KPrimary <= 0 {
		c.KPrimary = def.KPrimary
	}
	if c.KFallback <= 0 {
		c.KFallback = def.KFallback
	}
	if c.MinDocs <= 0 {
		c.MinDocs = def.MinDocs
	}
	if c.MinChars <= 0 {
		c.MinChars = def.MinChars
	}
	if c.MaxContextChars <= 0 {
		c.MaxContextChars = def.MaxContextChars
	}
	if c.DedupPrefixChars <= 0 {
		c.DedupPrefixChars = def.DedupPrefixChars
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}

// Result is the outcome of a retrieval. Degraded is set when every tier came back weak.
type Result struct {
	Query     string
	Documents []Document
	Context   string
	Tier      Tier
	Degraded  bool
}

// Observer receives one call per retrieval.
type Observer interface {
	ObserveRetrieval(tier string, degraded bool)
}

type Option func(*TieredRetriever)

// WithTranslator enables English translation of Arabic queries before the primary search.
func WithTranslator(t Translator) Option {
	return func(r *TieredRetriever) {
		r.translator = t
	}
}

func WithObserver(o Observer) Option {
	return func(r *TieredRetriever) {
		r.observer = o
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *TieredRetriever) {
		if t != nil {
			r.tracer = t
		}
	}
}

// TieredRetriever widens the search in stages until the result is strong enough:
// language-filtered, then unfiltered, then a deduplicated merge of every set.
type TieredRetriever struct {
	searcher   Searcher
	cfg        Config
	translator Translator
	observer   Observer
	tracer     trace.Tracer
	logger     *logging.Logger
}

func NewTieredRetriever(searcher Searcher, cfg Config, logger *logging.Logger, opts ...Option) *TieredRetriever {
	if searcher == nil {
		panic("retrieval: searcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	r := &TieredRetriever{
		searcher: searcher,
		cfg:      cfg.withDefaults(),
		tracer:   otel.Tracer("campus.internal.retrieval"),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsWeak reports whether docs are too few or too short to answer from.
func IsWeak(docs []Document, minDocs, minChars int) bool {
	if len(docs) < minDocs {
		return true
	}
	return contentLength(docs) < minChars
}

func (r *TieredRetriever) isWeak(docs []Document) bool {
	return IsWeak(docs, r.cfg.MinDocs, r.cfg.MinChars)
}

// Retrieve never fails: search errors are logged and treated as empty result sets.
func (r *TieredRetriever) Retrieve(ctx context.Context, query string, lang Language) Result {
	ctx, span := r.tracer.Start(ctx, "retrieval.retrieve")
	defer span.End()

	effective := query
	primaryLang := lang
	if lang == Arabic && r.translator != nil {
		if translated, ok := r.translate(ctx, query); ok {
			effective = translated
			primaryLang = English
		}
	}

	primary := r.search(ctx, TierPrimary, effective, primaryLang, r.cfg.KPrimary)
	if !r.isWeak(primary) {
		return r.finish(span, effective, primary, TierPrimary, false)
	}

	unfiltered := r.search(ctx, TierUnfiltered, effective, LanguageAny, r.cfg.KFallback)
	if !r.isWeak(unfiltered) {
		return r.finish(span, effective, unfiltered, TierUnfiltered, false)
	}

	arabic := r.search(ctx, TierMerged, effective, Arabic, r.cfg.KFallback)
	english := r.search(ctx, TierMerged, effective, English, r.cfg.KFallback)
	merged := MergeUnique(r.cfg.DedupPrefixChars, primary, unfiltered, arabic, english)
	return r.finish(span, effective, merged, TierMerged, r.isWeak(merged))
}

func (r *TieredRetriever) finish(span trace.Span, query string, docs []Document, tier Tier, degraded bool) Result {
	span.SetAttributes(
		attribute.String("retrieval.tier", string(tier)),
		attribute.Int("retrieval.documents", len(docs)),
		attribute.Bool("retrieval.degraded", degraded),
	)
	if degraded {
		r.logger.Warn("retrieval degraded", "query", query, "documents", len(docs))
	}
	if r.observer != nil {
		r.observer.ObserveRetrieval(string(tier), degraded)
	}
	return Result{
		Query:     query,
		Documents: docs,
		Context:   FormatContext(docs, r.cfg.MaxContextChars),
		Tier:      tier,
		Degraded:  degraded,
	}
}

func (r *TieredRetriever) search(ctx context.Context, tier Tier, query string, lang Language, k int) []Document {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	docs, err := r.searcher.Search(ctx, query, lang, k)
	if err != nil {
		r.logger.Warn("retrieval search failed", "tier", tier, "lang", lang, "error", err)
		return nil
	}
	return docs
}

func (r *TieredRetriever) translate(ctx context.Context, query string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	translated, err := r.translator.TranslateToEnglish(ctx, query)
	if err != nil {
		r.logger.Warn("query translation failed, searching with original text", "error", err)
		return "", false
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return "", false
	}
	return translated, true
}
