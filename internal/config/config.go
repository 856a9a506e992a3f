package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	ChatRateLimitRPS   float64
	ChatRateLimitBurst int
	AdminToken         string

	// Conversation state
	RedisAddr            string
	RedisPassword        string
	ConversationStateTTL time.Duration

	// Reviews and vector search
	DatabaseURL string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Language models
	BedrockModelIDEnglish   string
	BedrockModelIDArabic    string
	BedrockEmbeddingModelID string
	GeminiAPIKey            string
	GeminiModelID           string
	LLMMaxTokens            int
	LLMTemperature          float64

	// Cross-lingual retrieval
	TranslateArabicQueries bool
	TranslationModelID     string
	TranslationCacheTTL    time.Duration

	// Tiered retrieval
	RetrievalKPrimary         int
	RetrievalKFallback        int
	RetrievalMinDocs          int
	RetrievalMinChars         int
	RetrievalMaxContextChars  int
	RetrievalDedupPrefixChars int
	RetrievalTimeout          time.Duration
	SynthesisTimeout          time.Duration

	// Negative review alerts
	EmailProvider   string
	SendGridAPIKey  string
	EmailFrom       string
	EmailFromName   string
	AlertRecipients []string
	AlertTimeout    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	englishModel := getEnv("BEDROCK_MODEL_ID_EN", "")
	return &Config{
		Port:               getEnv("PORT", "8090"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		ChatRateLimitRPS:   getEnvAsFloat("CHAT_RATE_LIMIT_RPS", 2),
		ChatRateLimitBurst: getEnvAsInt("CHAT_RATE_LIMIT_BURST", 10),
		AdminToken:         getEnv("ADMIN_TOKEN", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		ConversationStateTTL: getEnvAsDuration("CONVERSATION_STATE_TTL", 0),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		BedrockModelIDEnglish:   englishModel,
		BedrockModelIDArabic:    getEnv("BEDROCK_MODEL_ID_AR", englishModel),
		BedrockEmbeddingModelID: getEnv("BEDROCK_EMBEDDING_MODEL_ID", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:           getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		LLMMaxTokens:            getEnvAsInt("LLM_MAX_TOKENS", 512),
		LLMTemperature:          getEnvAsFloat("LLM_TEMPERATURE", 0.2),

		TranslateArabicQueries: getEnvAsBool("TRANSLATE_ARABIC_QUERIES", true),
		TranslationModelID:     getEnv("TRANSLATION_MODEL_ID", englishModel),
		TranslationCacheTTL:    getEnvAsDuration("TRANSLATION_CACHE_TTL", time.Hour),

		RetrievalKPrimary:         getEnvAsInt("RETRIEVAL_K_PRIMARY", 6),
		RetrievalKFallback:        getEnvAsInt("RETRIEVAL_K_FALLBACK", 6),
		RetrievalMinDocs:          getEnvAsInt("RETRIEVAL_MIN_DOCS", 2),
		RetrievalMinChars:         getEnvAsInt("RETRIEVAL_MIN_CHARS", 250),
		RetrievalMaxContextChars:  getEnvAsInt("RETRIEVAL_MAX_CONTEXT_CHARS", 6000),
		RetrievalDedupPrefixChars: getEnvAsInt("RETRIEVAL_DEDUP_PREFIX_CHARS", 80),
		RetrievalTimeout:          getEnvAsDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
		SynthesisTimeout:          getEnvAsDuration("SYNTHESIS_TIMEOUT", 60*time.Second),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", ""),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "Campus Guide"),
		AlertRecipients: getEnvAsList("ALERT_RECIPIENTS", nil),
		AlertTimeout:    getEnvAsDuration("ALERT_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
