package reviews

import "strings"

var negativeKeywords = []string{
	"bad",
	"dirty",
	"broken",
	"not working",
	"terrible",
	"problem",
	"issue",
	"worst",
	"noisy",
	"smelly",
	"سيئ",
	"وسخ",
	"خربان",
	"ما يشتغل",
	"مشكلة",
	"أسوأ",
	"ما عجبني",
}

// Evaluate classifies feedback text. Blank text is neutral, any negative keyword makes
// it negative, and everything else is positive.
func Evaluate(text string) Sentiment {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return SentimentNeutral
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(normalized, keyword) {
			return SentimentNegative
		}
	}
	return SentimentPositive
}
