package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/wolfman30/campus-guide-ai/internal/config"
	"github.com/wolfman30/campus-guide-ai/internal/conversation"
	"github.com/wolfman30/campus-guide-ai/internal/notify"
	"github.com/wolfman30/campus-guide-ai/internal/observability/metrics"
	"github.com/wolfman30/campus-guide-ai/internal/retrieval"
	"github.com/wolfman30/campus-guide-ai/internal/reviews"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// Assistant is the wired application graph served by cmd/api.
type Assistant struct {
	Orchestrator *conversation.Orchestrator
	Reviews      *reviews.Service
	Metrics      *metrics.AssistantMetrics

	// HealthChecks probe the external dependencies that were configured.
	HealthChecks map[string]func(context.Context) error

	closers []func() error
}

// Close waits for in-flight review alerts, then releases every client opened while
// building the assistant.
func (a *Assistant) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildAssistant wires state, retrieval, models, reviews and alerts from config. Redis
// and Postgres are optional; without them the in-memory implementations are used.
func BuildAssistant(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, reg prometheus.Registerer, logger *logging.Logger) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.BedrockModelIDEnglish) == "" && strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID_EN or GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.BedrockEmbeddingModelID) == "" {
		return nil, fmt.Errorf("bootstrap: BEDROCK_EMBEDDING_MODEL_ID is required")
	}

	a := &Assistant{HealthChecks: make(map[string]func(context.Context) error)}
	fail := func(err error) (*Assistant, error) {
		_ = a.Close()
		return nil, err
	}

	if reg != nil {
		a.Metrics = metrics.NewAssistantMetrics(reg)
	}
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)

	store := buildStateStore(ctx, cfg, a, logger)

	english, arabic, err := buildModelVariants(ctx, cfg, bedrockClient, a, logger)
	if err != nil {
		return fail(err)
	}

	searcher, err := buildSearcher(cfg, bedrockClient, a, logger)
	if err != nil {
		return fail(err)
	}

	var retrieverOpts []retrieval.Option
	if a.Metrics != nil {
		retrieverOpts = append(retrieverOpts, retrieval.WithObserver(a.Metrics))
	}
	if cfg.TranslateArabicQueries && strings.TrimSpace(cfg.TranslationModelID) != "" {
		translator := conversation.NewLLMTranslator(english.Client, cfg.TranslationModelID, cfg.TranslationCacheTTL, logger)
		retrieverOpts = append(retrieverOpts, retrieval.WithTranslator(translator))
		logger.Info("arabic query translation enabled", "model", cfg.TranslationModelID)
	}
	retriever := retrieval.NewTieredRetriever(searcher, retrieval.Config{
		KPrimary:         cfg.RetrievalKPrimary,
		KFallback:        cfg.RetrievalKFallback,
		MinDocs:          cfg.RetrievalMinDocs,
		MinChars:         cfg.RetrievalMinChars,
		MaxContextChars:  cfg.RetrievalMaxContextChars,
		DedupPrefixChars: cfg.RetrievalDedupPrefixChars,
		Timeout:          cfg.RetrievalTimeout,
	}, logger, retrieverOpts...)

	synthOpts := []conversation.SynthesizerOption{
		conversation.WithSynthesisTimeout(cfg.SynthesisTimeout),
		conversation.WithGenerationParams(int32(cfg.LLMMaxTokens), float32(cfg.LLMTemperature)),
	}
	if a.Metrics != nil {
		synthOpts = append(synthOpts, conversation.WithLatencyObserver(a.Metrics))
	}
	synthesizer := conversation.NewAnswerSynthesizer(english, arabic, logger, synthOpts...)

	reviewService, err := buildReviewService(ctx, cfg, awsCfg, a, logger)
	if err != nil {
		return fail(err)
	}
	a.Reviews = reviewService

	orchOpts := []conversation.OrchestratorOption{}
	if a.Metrics != nil {
		orchOpts = append(orchOpts, conversation.WithTurnObserver(a.Metrics))
	}
	a.Orchestrator = conversation.NewOrchestrator(conversation.OrchestratorDeps{
		Store:       store,
		Retriever:   retriever,
		Synthesizer: synthesizer,
		Reviews:     reviewService,
		Places:      conversation.NewSearchPlaceLookup(searcher, cfg.RetrievalTimeout, logger),
	}, logger, orchOpts...)

	logger.Info("assistant ready",
		"model_en", english.Model,
		"model_ar", arabic.Model,
		"embedding_model", cfg.BedrockEmbeddingModelID,
		"redis", cfg.RedisAddr != "",
		"postgres", cfg.DatabaseURL != "",
	)
	return a, nil
}

func buildStateStore(ctx context.Context, cfg *appconfig.Config, a *Assistant, logger *logging.Logger) conversation.StateStore {
	client := BuildRedisClient(ctx, cfg, logger, true)
	if client == nil {
		logger.Warn("redis not configured; conversation state is process-local")
		return conversation.NewMemoryStateStore()
	}
	a.closers = append(a.closers, client.Close)
	a.HealthChecks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	return conversation.NewRedisStateStore(client, cfg.ConversationStateTTL, nil)
}

// buildModelVariants uses Bedrock per response language, wrapped with a Gemini fallback
// when a key is configured. Gemini alone serves both languages when Bedrock is unset.
func buildModelVariants(ctx context.Context, cfg *appconfig.Config, bedrockClient *bedrockruntime.Client, a *Assistant, logger *logging.Logger) (conversation.ModelVariant, conversation.ModelVariant, error) {
	var gemini conversation.LLMClient
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return conversation.ModelVariant{}, conversation.ModelVariant{}, fmt.Errorf("bootstrap: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		gemini = client
	}

	if strings.TrimSpace(cfg.BedrockModelIDEnglish) == "" {
		logger.Info("using gemini for both languages", "model", cfg.GeminiModelID)
		variant := conversation.ModelVariant{Client: gemini, Model: cfg.GeminiModelID}
		return variant, variant, nil
	}

	var client conversation.LLMClient = conversation.NewBedrockLLMClient(bedrockClient)
	if gemini != nil {
		client = conversation.NewFallbackLLMClient(client, gemini, logger)
		logger.Info("gemini fallback enabled", "model", cfg.GeminiModelID)
	}
	english := conversation.ModelVariant{Client: client, Model: cfg.BedrockModelIDEnglish}
	arabic := conversation.ModelVariant{Client: client, Model: cfg.BedrockModelIDArabic}
	return english, arabic, nil
}

func buildSearcher(cfg *appconfig.Config, bedrockClient *bedrockruntime.Client, a *Assistant, logger *logging.Logger) (retrieval.Searcher, error) {
	embedder := retrieval.NewBedrockEmbedder(bedrockClient)
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set; using an empty in-memory document index")
		return retrieval.NewMemorySearcher(embedder, cfg.BedrockEmbeddingModelID, logger), nil
	}
	searcher, err := retrieval.OpenPgvectorSearcher(cfg.DatabaseURL, embedder, cfg.BedrockEmbeddingModelID)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	a.closers = append(a.closers, searcher.Close)
	return searcher, nil
}

func buildReviewService(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, a *Assistant, logger *logging.Logger) (*reviews.Service, error) {
	var repo reviews.Repository = reviews.NewMemoryRepository()
	pool, err := ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		a.HealthChecks["postgres"] = pool.Ping
		repo = reviews.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set; reviews are kept in memory")
	}

	var sesClient *sesv2.Client
	if cfg.EmailProvider == "ses" || (cfg.EmailProvider == "auto" && cfg.EmailFrom != "") {
		sesClient = sesv2.NewFromConfig(awsCfg)
	}
	sender := notify.NewEmailSender(notify.ProviderConfig{
		Provider:       cfg.EmailProvider,
		SendGridAPIKey: cfg.SendGridAPIKey,
		FromEmail:      cfg.EmailFrom,
		FromName:       cfg.EmailFromName,
	}, sesClient, logger)

	opts := []reviews.ServiceOption{
		reviews.WithAlerter(notify.NewReviewAlerter(sender, cfg.AlertRecipients, logger)),
		reviews.WithAlertTimeout(cfg.AlertTimeout),
	}
	if a.Metrics != nil {
		opts = append(opts, reviews.WithObserver(a.Metrics))
	}
	svc := reviews.NewService(repo, logger, opts...)
	// Registered last so pending alerts drain before anything else is closed.
	a.closers = append(a.closers, func() error { svc.Wait(); return nil })
	return svc, nil
}
