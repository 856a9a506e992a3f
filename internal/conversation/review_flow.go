package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/campus-guide-ai/internal/reviews"
)

const recentReviewLimit = 5

// ReviewService is the review side-channel used by the orchestrator.
type ReviewService interface {
	Submit(ctx context.Context, req reviews.SubmitRequest) (reviews.Review, error)
	Summarize(ctx context.Context, placeID string, limit int) (reviews.Summary, error)
}

// resolveReviewPlace prefers a place named in the message over the session's last place.
func (o *Orchestrator) resolveReviewPlace(ctx context.Context, message string, lang ResponseLang, state ConversationState) (string, string) {
	if o.places != nil {
		for _, mention := range extractPlaceMentions(message) {
			if place, ok := o.places.Lookup(ctx, mention, lang); ok {
				o.logger.Info("review place resolved from message", "mention", mention, "place_id", place.ID)
				return place.ID, place.Name
			}
		}
	}
	return state.LastPlaceID, state.LastPlaceQuery
}

func (o *Orchestrator) handleReviewSubmit(ctx context.Context, sessionID, message string, decision RouteDecision, state ConversationState) string {
	placeID, placeName := o.resolveReviewPlace(ctx, message, decision.ResponseLang, state)
	if placeID == "" {
		o.logger.Warn("review submitted without place context", "session_id", sessionID)
	}

	review, err := o.reviews.Submit(ctx, reviews.SubmitRequest{
		Text:      message,
		PlaceID:   placeID,
		PlaceName: placeName,
		SessionID: sessionID,
	})
	if err != nil {
		o.logger.Error("failed to store review", "session_id", sessionID, "place_id", placeID, "error", err)
	}

	state.LastIntent = IntentReviewSubmit
	o.saveState(ctx, sessionID, state)
	return reviewAcknowledgement(decision.ResponseLang, placeID, placeName, review.Sentiment)
}

func reviewAcknowledgement(lang ResponseLang, placeID, placeName string, sentiment reviews.Sentiment) string {
	known := placeID != "" && placeName != ""
	if lang == ResponseArabic {
		if known {
			return fmt.Sprintf("شكراً لمشاركتك رأيك عن %s. تم تسجيل الملاحظة (%s).", placeName, sentiment)
		}
		return fmt.Sprintf("شكراً لمشاركتك رأيك. تم تسجيل الملاحظة (%s).", sentiment)
	}
	if known {
		return fmt.Sprintf("Thank you for your feedback about %s. Your review has been recorded (%s).", placeName, sentiment)
	}
	return fmt.Sprintf("Thank you for your feedback. Your review has been recorded (%s).", sentiment)
}

func (o *Orchestrator) handleReviewQuery(ctx context.Context, sessionID, message string, decision RouteDecision, state ConversationState) string {
	lang := decision.ResponseLang
	placeID, placeName := o.resolveReviewPlace(ctx, message, lang, state)

	state.LastIntent = IntentReviewQuery
	o.saveState(ctx, sessionID, state)

	if placeID == "" {
		if lang == ResponseArabic {
			return "عن أي مكان تقصد؟ اسأل عن مكان أولاً."
		}
		return "Which place are you asking about? Please ask about a location first."
	}

	summary, err := o.reviews.Summarize(ctx, placeID, recentReviewLimit)
	if err != nil {
		o.logger.Error("failed to load reviews", "place_id", placeID, "error", err)
	}
	if err != nil || len(summary.Recent) == 0 {
		if lang == ResponseArabic {
			return fmt.Sprintf("لا توجد مراجعات لـ %s بعد.", valueOr(placeName, "هذا المكان"))
		}
		return fmt.Sprintf("There are no reviews for %s yet.", valueOr(placeName, "this location"))
	}
	return formatReviewSummary(lang, placeName, summary)
}

func formatReviewSummary(lang ResponseLang, placeName string, summary reviews.Summary) string {
	labels := struct{ title, total, positive, neutral, negative, recent string }{
		title:    fmt.Sprintf("**Reviews for %s:**", valueOr(placeName, "this location")),
		total:    "Total",
		positive: "Positive",
		neutral:  "Neutral",
		negative: "Negative",
		recent:   "**Recent Comments:**",
	}
	if lang == ResponseArabic {
		labels.title = fmt.Sprintf("**تقييمات %s:**", valueOr(placeName, "المكان"))
		labels.total = "إجمالي"
		labels.positive = "إيجابية"
		labels.neutral = "محايدة"
		labels.negative = "سلبية"
		labels.recent = "**آخر التعليقات:**"
	}

	var b strings.Builder
	b.WriteString(labels.title + "\n\n")
	fmt.Fprintf(&b, "📊 %s: %d\n", labels.total, summary.Stats.Total)
	fmt.Fprintf(&b, "✅ %s: %d\n", labels.positive, summary.Stats.Positive)
	fmt.Fprintf(&b, "➖ %s: %d\n", labels.neutral, summary.Stats.Neutral)
	fmt.Fprintf(&b, "❌ %s: %d\n\n", labels.negative, summary.Stats.Negative)
	b.WriteString(labels.recent + "\n")
	for _, r := range summary.Recent {
		fmt.Fprintf(&b, "%s %s\n", r.Sentiment.Emoji(), r.Text)
	}
	return b.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
