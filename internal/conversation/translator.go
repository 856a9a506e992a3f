package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// LLMTranslator translates Arabic queries to English with a language model and caches
// the results.
type LLMTranslator struct {
	client LLMClient
	model  string
	cache  *gocache.Cache
	logger *logging.Logger
}

func NewLLMTranslator(client LLMClient, model string, cacheTTL time.Duration, logger *logging.Logger) *LLMTranslator {
	if client == nil {
		panic("conversation: translator llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &LLMTranslator{
		client: client,
		model:  model,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}
}

func (t *LLMTranslator) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	key := normalizeMessage(text)
	if key == "" {
		return "", errors.New("conversation: nothing to translate")
	}
	if cached, ok := t.cache.Get(key); ok {
		return cached.(string), nil
	}

	resp, err := t.client.Complete(ctx, LLMRequest{
		Model:       t.model,
		System:      []string{translationPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: key}},
		MaxTokens:   128,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: translate query: %w", err)
	}
	translated := strings.Trim(strings.TrimSpace(resp.Text), `"'`)
	if translated == "" {
		return "", errors.New("conversation: empty translation")
	}

	t.cache.SetDefault(key, translated)
	t.logger.Debug("query translated", "source", key, "translated", translated)
	return translated, nil
}
