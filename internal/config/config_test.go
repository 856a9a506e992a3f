package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BEDROCK_MODEL_ID_EN", "")
	t.Setenv("BEDROCK_MODEL_ID_AR", "")
	t.Setenv("RETRIEVAL_MIN_CHARS", "")
	t.Setenv("CHAT_RATE_LIMIT_RPS", "")
	t.Setenv("CHAT_RATE_LIMIT_BURST", "")
	cfg := Load()
	if cfg.Port != "8090" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.BedrockModelIDEnglish != "" || cfg.BedrockModelIDArabic != "" {
		t.Fatalf("expected empty model ids, got %q/%q", cfg.BedrockModelIDEnglish, cfg.BedrockModelIDArabic)
	}
	if cfg.RetrievalKPrimary != 6 || cfg.RetrievalKFallback != 6 {
		t.Fatalf("unexpected k defaults: %d/%d", cfg.RetrievalKPrimary, cfg.RetrievalKFallback)
	}
	if cfg.RetrievalMinDocs != 2 || cfg.RetrievalMinChars != 250 {
		t.Fatalf("unexpected weak thresholds: %d/%d", cfg.RetrievalMinDocs, cfg.RetrievalMinChars)
	}
	if cfg.RetrievalMaxContextChars != 6000 {
		t.Fatalf("expected 6000 context budget, got %d", cfg.RetrievalMaxContextChars)
	}
	if cfg.RetrievalTimeout != 10*time.Second {
		t.Fatalf("expected default retrieval timeout, got %s", cfg.RetrievalTimeout)
	}
	if !cfg.TranslateArabicQueries {
		t.Fatalf("expected arabic query translation enabled by default")
	}
	if cfg.ChatRateLimitRPS != 2 || cfg.ChatRateLimitBurst != 10 {
		t.Fatalf("unexpected chat rate limit defaults: %v/%d", cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst)
	}
	if cfg.EmailProvider != "auto" {
		t.Fatalf("expected auto email provider, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("BEDROCK_MODEL_ID_EN", "anthropic.claude-3-haiku-20240307-v1:0")
	t.Setenv("BEDROCK_MODEL_ID_AR", "")
	t.Setenv("RETRIEVAL_MIN_CHARS", "400")
	t.Setenv("RETRIEVAL_TIMEOUT", "3s")
	t.Setenv("ALERT_RECIPIENTS", "ops@example.com, ,facilities@example.com")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.BedrockModelIDArabic != cfg.BedrockModelIDEnglish {
		t.Fatalf("expected arabic model to fall back to english, got %q", cfg.BedrockModelIDArabic)
	}
	if cfg.TranslationModelID != cfg.BedrockModelIDEnglish {
		t.Fatalf("expected translation model to default to english model, got %q", cfg.TranslationModelID)
	}
	if cfg.RetrievalMinChars != 400 {
		t.Fatalf("expected min chars override, got %d", cfg.RetrievalMinChars)
	}
	if cfg.RetrievalTimeout != 3*time.Second {
		t.Fatalf("expected retrieval timeout override, got %s", cfg.RetrievalTimeout)
	}
	if len(cfg.AlertRecipients) != 2 || cfg.AlertRecipients[1] != "facilities@example.com" {
		t.Fatalf("unexpected recipients: %#v", cfg.AlertRecipients)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalized provider, got %q", cfg.EmailProvider)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Fatalf("expected temperature override, got %v", cfg.LLMTemperature)
	}
}
