package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the polarity assigned to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Emoji is the marker used when rendering a review in a summary.
func (s Sentiment) Emoji() string {
	switch s {
	case SentimentPositive:
		return "✅"
	case SentimentNegative:
		return "❌"
	default:
		return "➖"
	}
}

// Review is append-only feedback left during a session.
type Review struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	PlaceID   string    `json:"place_id,omitempty"`
	PlaceName string    `json:"place_name,omitempty"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats aggregates review counts for one place.
type Stats struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (s *Stats) add(sentiment Sentiment) {
	s.Total++
	switch sentiment {
	case SentimentPositive:
		s.Positive++
	case SentimentNegative:
		s.Negative++
	default:
		s.Neutral++
	}
}
