// Command llmtest sends one English and one Arabic question to every configured model provider.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/wolfman30/campus-guide-ai/cmd/mainconfig"
	appconfig "github.com/wolfman30/campus-guide-ai/internal/config"
	"github.com/wolfman30/campus-guide-ai/internal/conversation"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

const sampleContext = `[Doc 1: place_id=B1-3,name=Lecture Hall B1-3,floor=1]

Lecture Hall B1-3 is on the first floor of building B, next to the east elevator. Evening sessions start at 18:30.`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()
	logger := logging.New("warn")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	questions := []conversation.SynthesisRequest{
		{Question: "Where is B1-3 and when do evening sessions start?", Context: sampleContext, Lang: conversation.ResponseEnglish},
		{Question: "وين قاعة B1-3 ومتى تبدأ الجلسات المسائية؟", Context: sampleContext, Lang: conversation.ResponseArabic},
	}

	failed := false
	if cfg.BedrockModelIDEnglish != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("load aws config: %v", err)
		}
		client := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		synth := conversation.NewAnswerSynthesizer(
			conversation.ModelVariant{Client: client, Model: cfg.BedrockModelIDEnglish},
			conversation.ModelVariant{Client: client, Model: cfg.BedrockModelIDArabic},
			logger,
		)
		failed = runProvider(ctx, "Bedrock", synth, questions) || failed
	} else {
		fmt.Println("Skipping Bedrock (BEDROCK_MODEL_ID_EN not set)")
	}

	if cfg.GeminiAPIKey != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			log.Fatalf("create gemini client: %v", err)
		}
		defer func() { _ = client.Close() }()
		variant := conversation.ModelVariant{Client: client, Model: cfg.GeminiModelID}
		synth := conversation.NewAnswerSynthesizer(variant, variant, logger)
		failed = runProvider(ctx, "Gemini", synth, questions) || failed
	} else {
		fmt.Println("Skipping Gemini (GEMINI_API_KEY not set)")
	}

	if failed {
		os.Exit(1)
	}
}

func runProvider(ctx context.Context, name string, synth conversation.Synthesizer, questions []conversation.SynthesisRequest) bool {
	fmt.Printf("\n[%s]\n", name)
	failed := false
	for _, q := range questions {
		start := time.Now()
		answer, err := synth.Generate(ctx, q)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Printf("  FAIL %s (%v): %v\n", q.Lang, elapsed, err)
			failed = true
			continue
		}
		fmt.Printf("  OK   %s (%v): %s\n", q.Lang, elapsed, answer)
	}
	return failed
}
