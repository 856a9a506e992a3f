package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

const defaultSynthesisTimeout = 60 * time.Second

// ModelVariant is the client and model used for one response language.
type ModelVariant struct {
	Client LLMClient
	Model  string
}

// SynthesisRequest carries everything needed to answer one question.
type SynthesisRequest struct {
	Question  string
	Context   string
	Lang      ResponseLang
	StyleHint string
}

// Synthesizer turns a question plus retrieved context into an answer.
type Synthesizer interface {
	Generate(ctx context.Context, req SynthesisRequest) (string, error)
}

// LatencyObserver receives the duration of each model call.
type LatencyObserver interface {
	ObserveModelLatency(lang, status string, seconds float64)
}

type SynthesizerOption func(*AnswerSynthesizer)

func WithSynthesisTimeout(d time.Duration) SynthesizerOption {
	return func(s *AnswerSynthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithGenerationParams(maxTokens int32, temperature float32) SynthesizerOption {
	return func(s *AnswerSynthesizer) {
		s.maxTokens = maxTokens
		s.temperature = temperature
	}
}

func WithLatencyObserver(o LatencyObserver) SynthesizerOption {
	return func(s *AnswerSynthesizer) {
		s.observer = o
	}
}

// AnswerSynthesizer picks a model variant per response language and sends a two-part
// prompt: a fixed system instruction and a human turn with the context and question.
type AnswerSynthesizer struct {
	variants    map[ResponseLang]ModelVariant
	timeout     time.Duration
	maxTokens   int32
	temperature float32
	observer    LatencyObserver
	logger      *logging.Logger
}

// NewAnswerSynthesizer requires an English variant. A missing Arabic variant reuses it.
func NewAnswerSynthesizer(english, arabic ModelVariant, logger *logging.Logger, opts ...SynthesizerOption) *AnswerSynthesizer {
	if english.Client == nil {
		panic("conversation: english model client cannot be nil")
	}
	if arabic.Client == nil {
		arabic.Client = english.Client
	}
	if strings.TrimSpace(arabic.Model) == "" {
		arabic.Model = english.Model
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &AnswerSynthesizer{
		variants: map[ResponseLang]ModelVariant{
			ResponseEnglish: english,
			ResponseArabic:  arabic,
		},
		timeout:     defaultSynthesisTimeout,
		maxTokens:   512,
		temperature: 0.2,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnswerSynthesizer) Generate(ctx context.Context, req SynthesisRequest) (string, error) {
	lang := req.Lang
	if lang != ResponseArabic {
		lang = ResponseEnglish
	}
	variant := s.variants[lang]

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	resp, err := variant.Client.Complete(ctx, LLMRequest{
		Model:       variant.Model,
		System:      []string{systemPromptFor(lang)},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: buildHumanPrompt(req, lang)}},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	elapsed := time.Since(started)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if s.observer != nil {
		s.observer.ObserveModelLatency(string(lang), status, elapsed.Seconds())
	}
	if err != nil {
		s.logger.Error("answer synthesis failed", "lang", lang, "model", variant.Model, "error", err)
		return "", fmt.Errorf("conversation: synthesize answer: %w", err)
	}

	s.logger.Debug("answer synthesized",
		"lang", lang,
		"model", variant.Model,
		"duration_ms", elapsed.Milliseconds(),
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp.Text, nil
}

func buildHumanPrompt(req SynthesisRequest, lang ResponseLang) string {
	contextBlock := annotateTimes(req.Context, lang)
	if hint := strings.TrimSpace(req.StyleHint); hint != "" {
		contextBlock += "\n\nStyle hint: " + hint
	}
	return fmt.Sprintf(humanPromptTemplate, contextBlock, req.Question)
}
