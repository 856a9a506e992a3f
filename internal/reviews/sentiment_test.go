package reviews

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"negative english", "the room is dirty and broken", SentimentNegative},
		{"positive english", "great session today", SentimentPositive},
		{"blank", "   ", SentimentNeutral},
		{"empty", "", SentimentNeutral},
		{"case insensitive", "The Toilet Is NOT WORKING", SentimentNegative},
		{"negative arabic", "الحمام وسخ", SentimentNegative},
		{"negative arabic phrase", "المكيف ما يشتغل", SentimentNegative},
		{"positive arabic", "المكان رائع", SentimentPositive},
		{"substring match", "badly lit corridor", SentimentNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.text); got != tt.want {
				t.Fatalf("Evaluate(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
