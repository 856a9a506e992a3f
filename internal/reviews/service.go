package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

const defaultAlertTimeout = 10 * time.Second

// Alerter is notified about negative reviews.
type Alerter interface {
	SendAlert(ctx context.Context, review Review, placeName string) error
}

// Observer receives one call per recorded review.
type Observer interface {
	ObserveReview(sentiment string)
}

type ServiceOption func(*Service)

func WithAlerter(a Alerter) ServiceOption {
	return func(s *Service) {
		s.alerter = a
	}
}

func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

func WithAlertTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.alertTimeout = d
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service records reviews and raises alerts for negative ones.
type Service struct {
	repo         Repository
	alerter      Alerter
	observer     Observer
	alertTimeout time.Duration
	now          func() time.Time
	tracer       trace.Tracer
	logger       *logging.Logger

	inflight sync.WaitGroup
}

func NewService(repo Repository, logger *logging.Logger, opts ...ServiceOption) *Service {
	if repo == nil {
		panic("reviews: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		repo:         repo,
		alertTimeout: defaultAlertTimeout,
		now:          time.Now,
		tracer:       otel.Tracer("campus.internal.reviews"),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest is a single piece of feedback to record.
type SubmitRequest struct {
	Text      string
	PlaceID   string
	PlaceName string
	SessionID string
}

// Submit classifies and stores the review. Negative reviews trigger an alert that is
// sent in the background; alert failures are logged and never returned.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Review, error) {
	ctx, span := s.tracer.Start(ctx, "reviews.submit")
	defer span.End()

	review := Review{
		ID:        uuid.New(),
		Text:      strings.TrimSpace(req.Text),
		Sentiment: Evaluate(req.Text),
		PlaceID:   req.PlaceID,
		PlaceName: req.PlaceName,
		SessionID: req.SessionID,
		CreatedAt: s.now().UTC(),
	}
	span.SetAttributes(
		attribute.String("review.sentiment", string(review.Sentiment)),
		attribute.String("review.place_id", review.PlaceID),
	)

	if err := s.repo.Append(ctx, review); err != nil {
		span.RecordError(err)
		return review, fmt.Errorf("reviews: append: %w", err)
	}
	if s.observer != nil {
		s.observer.ObserveReview(string(review.Sentiment))
	}
	s.logger.Info("review recorded",
		"review_id", review.ID.String(),
		"place_id", review.PlaceID,
		"session_id", review.SessionID,
		"sentiment", review.Sentiment,
	)

	if review.Sentiment == SentimentNegative {
		s.alert(ctx, review)
	}
	return review, nil
}

func (s *Service) alert(ctx context.Context, review Review) {
	s.logger.Warn("negative review alert",
		"review_id", review.ID.String(),
		"place_id", review.PlaceID,
		"place_name", review.PlaceName,
		"text", review.Text,
	)
	if s.alerter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.alertTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		if err := s.alerter.SendAlert(ctx, review, review.PlaceName); err != nil {
			s.logger.Error("failed to send negative review alert", "review_id", review.ID.String(), "error", err)
		}
	}()
}

// Wait blocks until every alert dispatched so far has finished or timed out.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// Summary is the data behind a review digest for one place.
type Summary struct {
	PlaceID string   `json:"place_id"`
	Stats   Stats    `json:"stats"`
	Recent  []Review `json:"recent"`
}

// ErrNoPlace is returned when a summary is requested without a place.
var ErrNoPlace = errors.New("reviews: place id required")

// Summarize returns aggregate counts plus the most recent limit reviews, oldest first.
func (s *Service) Summarize(ctx context.Context, placeID string, limit int) (Summary, error) {
	if strings.TrimSpace(placeID) == "" {
		return Summary{}, ErrNoPlace
	}
	stats, err := s.repo.StatsByPlace(ctx, placeID)
	if err != nil {
		return Summary{}, err
	}
	list, err := s.repo.ListByPlace(ctx, placeID)
	if err != nil {
		return Summary{}, err
	}
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return Summary{PlaceID: placeID, Stats: stats, Recent: list}, nil
}
