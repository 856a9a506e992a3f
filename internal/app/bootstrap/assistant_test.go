package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/wolfman30/campus-guide-ai/internal/config"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

func testAWSConfig() aws.Config {
	return aws.Config{Region: "us-east-1"}
}

func TestBuildAssistantRequiresConfig(t *testing.T) {
	if _, err := BuildAssistant(context.Background(), nil, testAWSConfig(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildAssistantRequiresModel(t *testing.T) {
	cfg := &appconfig.Config{BedrockEmbeddingModelID: "amazon.titan-embed-text-v2:0"}
	_, err := BuildAssistant(context.Background(), cfg, testAWSConfig(), nil, logging.New("error"))
	if err == nil || !strings.Contains(err.Error(), "BEDROCK_MODEL_ID_EN") {
		t.Fatalf("expected missing model error, got %v", err)
	}
}

func TestBuildAssistantRequiresEmbeddingModel(t *testing.T) {
	cfg := &appconfig.Config{BedrockModelIDEnglish: "anthropic.claude-3-haiku"}
	_, err := BuildAssistant(context.Background(), cfg, testAWSConfig(), nil, logging.New("error"))
	if err == nil || !strings.Contains(err.Error(), "BEDROCK_EMBEDDING_MODEL_ID") {
		t.Fatalf("expected missing embedding model error, got %v", err)
	}
}

func TestBuildAssistantInMemory(t *testing.T) {
	cfg := &appconfig.Config{
		BedrockModelIDEnglish:   "anthropic.claude-3-haiku",
		BedrockModelIDArabic:    "anthropic.claude-3-sonnet",
		BedrockEmbeddingModelID: "amazon.titan-embed-text-v2:0",
		EmailProvider:           "auto",
	}
	reg := prometheus.NewRegistry()

	assistant, err := BuildAssistant(context.Background(), cfg, testAWSConfig(), reg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = assistant.Close() }()

	if assistant.Orchestrator == nil || assistant.Reviews == nil || assistant.Metrics == nil {
		t.Fatalf("expected orchestrator, reviews and metrics to be wired")
	}
	if len(assistant.HealthChecks) != 0 {
		t.Fatalf("expected no dependency checks without redis/postgres, got %d", len(assistant.HealthChecks))
	}
	if err := assistant.Orchestrator.ClearSession(context.Background(), "s1"); err != nil {
		t.Fatalf("clear session: %v", err)
	}
}

func TestBuildAssistantWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{
		RedisAddr:               mr.Addr(),
		BedrockModelIDEnglish:   "anthropic.claude-3-haiku",
		BedrockEmbeddingModelID: "amazon.titan-embed-text-v2:0",
	}

	assistant, err := BuildAssistant(context.Background(), cfg, testAWSConfig(), nil, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check, ok := assistant.HealthChecks["redis"]
	if !ok {
		t.Fatalf("expected redis health check")
	}
	if err := check(context.Background()); err != nil {
		t.Fatalf("redis check failed: %v", err)
	}
	if err := assistant.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuildRedisClientDisabled(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true); client != nil {
		t.Fatalf("expected nil client without REDIS_ADDR")
	}
}

func TestBuildRedisClientUnreachable(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
	if client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client when ping fails")
	}
}

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	pool, err := ConnectPostgresPool(context.Background(), "", logging.New("error"))
	if err != nil || pool != nil {
		t.Fatalf("expected nil pool and no error, got %v %v", pool, err)
	}
}

func TestConnectPostgresPoolInvalidURL(t *testing.T) {
	if _, err := ConnectPostgresPool(context.Background(), "postgres://%zz", logging.New("error")); err == nil {
		t.Fatalf("expected parse error")
	}
}
