package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/campus-guide-ai/internal/reviews"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// ReviewAlerter emails staff when a negative review comes in.
type ReviewAlerter struct {
	sender     EmailSender
	recipients []string
	logger     *logging.Logger
}

func NewReviewAlerter(sender EmailSender, recipients []string, logger *logging.Logger) *ReviewAlerter {
	if logger == nil {
		logger = logging.Default()
	}
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return &ReviewAlerter{sender: sender, recipients: cleaned, logger: logger}
}

// SendAlert emails every recipient. With no sender or no recipients the alert is only logged.
func (a *ReviewAlerter) SendAlert(ctx context.Context, review reviews.Review, placeName string) error {
	subject := alertSubject(review, placeName)
	body := alertBody(review, placeName)

	a.logger.Warn("review alert", "subject", subject, "review_id", review.ID.String(), "place_id", review.PlaceID)
	if a.sender == nil || len(a.recipients) == 0 {
		return nil
	}

	var errs []error
	for _, to := range a.recipients {
		if err := a.sender.Send(ctx, EmailMessage{To: to, Subject: subject, Body: body}); err != nil {
			errs = append(errs, fmt.Errorf("notify: alert %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func alertSubject(review reviews.Review, placeName string) string {
	target := strings.TrimSpace(placeName)
	if target == "" {
		target = review.PlaceID
	}
	if target == "" {
		target = "unknown place"
	}
	return "Negative Review - " + target
}

func alertBody(review reviews.Review, placeName string) string {
	var b strings.Builder
	b.WriteString("A negative review was submitted.\n\n")
	fmt.Fprintf(&b, "Place: %s\n", valueOr(placeName, "-"))
	fmt.Fprintf(&b, "Place ID: %s\n", valueOr(review.PlaceID, "-"))
	fmt.Fprintf(&b, "Session: %s\n", valueOr(review.SessionID, "-"))
	fmt.Fprintf(&b, "Sentiment: %s\n", review.Sentiment)
	fmt.Fprintf(&b, "Submitted: %s\n\n", review.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString("Review:\n")
	b.WriteString(review.Text)
	b.WriteString("\n")
	return b.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

var _ reviews.Alerter = (*ReviewAlerter)(nil)
