package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

type stubLLMClient struct {
	response LLMResponse
	err      error
	delay    time.Duration
	lastReq  LLMRequest
	requests []LLMRequest
	calls    int
}

func (s *stubLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.lastReq = req
	s.requests = append(s.requests, req)
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return LLMResponse{}, ctx.Err()
		}
	}
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return s.response, nil
}

type latencyRecorder struct {
	lang, status string
	calls        int
}

func (r *latencyRecorder) ObserveModelLatency(lang, status string, _ float64) {
	r.lang, r.status = lang, status
	r.calls++
}

func TestAnswerSynthesizerSelectsVariantByLanguage(t *testing.T) {
	english := &stubLLMClient{response: LLMResponse{Text: "It is on floor 1."}}
	arabic := &stubLLMClient{response: LLMResponse{Text: "في الدور الأول."}}
	synth := NewAnswerSynthesizer(
		ModelVariant{Client: english, Model: "model-en"},
		ModelVariant{Client: arabic, Model: "model-ar"},
		logging.Default(),
	)

	got, err := synth.Generate(context.Background(), SynthesisRequest{Question: "وين دانكن", Context: "ctx", Lang: ResponseArabic})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "في الدور الأول." {
		t.Fatalf("unexpected answer %q", got)
	}
	if english.calls != 0 || arabic.calls != 1 {
		t.Fatalf("expected arabic variant only, got en=%d ar=%d", english.calls, arabic.calls)
	}
	if arabic.lastReq.Model != "model-ar" || arabic.lastReq.System[0] != systemPromptAR {
		t.Fatalf("unexpected arabic request %#v", arabic.lastReq)
	}
}

func TestAnswerSynthesizerPromptShape(t *testing.T) {
	client := &stubLLMClient{response: LLMResponse{Text: "answer"}}
	synth := NewAnswerSynthesizer(ModelVariant{Client: client, Model: "m"}, ModelVariant{}, nil)

	_, err := synth.Generate(context.Background(), SynthesisRequest{
		Question:  "When does Dunkin open?",
		Context:   "[Doc 1: place_id=DUNKIN]\n\nOpens 07:00",
		Lang:      ResponseEnglish,
		StyleHint: "be brief",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	req := client.lastReq
	if len(req.System) != 1 || req.System[0] != systemPromptEN {
		t.Fatalf("unexpected system prompt %#v", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != ChatRoleUser {
		t.Fatalf("expected a single user message, got %#v", req.Messages)
	}
	prompt := req.Messages[0].Content
	for _, want := range []string{
		"Retrieved Context:\n[Doc 1: place_id=DUNKIN]\n\nOpens 07:00 (7:00 AM)\n\nStyle hint: be brief",
		"User Question:\nWhen does Dunkin open?",
		"- If the context is insufficient, ask ONE clarifying question.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnswerSynthesizerArabicFallsBackToEnglishVariant(t *testing.T) {
	client := &stubLLMClient{response: LLMResponse{Text: "ok"}}
	synth := NewAnswerSynthesizer(ModelVariant{Client: client, Model: "shared"}, ModelVariant{}, nil)

	if _, err := synth.Generate(context.Background(), SynthesisRequest{Question: "q", Lang: ResponseArabic}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if client.lastReq.Model != "shared" || client.lastReq.System[0] != systemPromptAR {
		t.Fatalf("unexpected request %#v", client.lastReq)
	}
}

func TestAnswerSynthesizerSurfacesErrors(t *testing.T) {
	client := &stubLLMClient{err: errors.New("throttled")}
	recorder := &latencyRecorder{}
	synth := NewAnswerSynthesizer(ModelVariant{Client: client, Model: "m"}, ModelVariant{}, nil, WithLatencyObserver(recorder))

	if _, err := synth.Generate(context.Background(), SynthesisRequest{Question: "q"}); err == nil {
		t.Fatal("expected error")
	}
	if recorder.calls != 1 || recorder.status != "error" || recorder.lang != "en" {
		t.Fatalf("unexpected latency observation %#v", recorder)
	}
}

func TestAnswerSynthesizerTimeout(t *testing.T) {
	client := &stubLLMClient{delay: time.Second, response: LLMResponse{Text: "late"}}
	synth := NewAnswerSynthesizer(ModelVariant{Client: client, Model: "m"}, ModelVariant{}, nil,
		WithSynthesisTimeout(20*time.Millisecond))

	_, err := synth.Generate(context.Background(), SynthesisRequest{Question: "q"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
