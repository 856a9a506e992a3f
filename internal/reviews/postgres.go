package reviews

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores reviews in the reviews table.
type PostgresRepository struct {
	db rowQuerier
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("reviews: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithQuerier(db rowQuerier) *PostgresRepository {
	if db == nil {
		panic("reviews: querier required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, review Review) error {
	query := `
		INSERT INTO reviews (id, place_id, place_name, session_id, text, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Exec(ctx, query,
		review.ID,
		review.PlaceID,
		review.PlaceName,
		review.SessionID,
		review.Text,
		string(review.Sentiment),
		review.CreatedAt,
	); err != nil {
		return fmt.Errorf("reviews: insert review: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByPlace(ctx context.Context, placeID string) ([]Review, error) {
	query := `
		SELECT id, place_id, place_name, session_id, text, sentiment, created_at
		FROM reviews
		WHERE place_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, placeID)
	if err != nil {
		return nil, fmt.Errorf("reviews: list reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var (
			review    Review
			sentiment string
		)
		if err := rows.Scan(
			&review.ID,
			&review.PlaceID,
			&review.PlaceName,
			&review.SessionID,
			&review.Text,
			&sentiment,
			&review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("reviews: scan review: %w", err)
		}
		review.Sentiment = Sentiment(sentiment)
		out = append(out, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reviews: iterate reviews: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) StatsByPlace(ctx context.Context, placeID string) (Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sentiment = 'positive'),
			COUNT(*) FILTER (WHERE sentiment = 'neutral'),
			COUNT(*) FILTER (WHERE sentiment = 'negative')
		FROM reviews
		WHERE place_id = $1
	`
	var stats Stats
	if err := r.db.QueryRow(ctx, query, placeID).Scan(&stats.Total, &stats.Positive, &stats.Neutral, &stats.Negative); err != nil {
		return Stats{}, fmt.Errorf("reviews: stats: %w", err)
	}
	return stats, nil
}
