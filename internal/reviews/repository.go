package reviews

import (
	"context"
	"sort"
	"sync"
)

// Repository persists reviews and answers per-place queries.
type Repository interface {
	Append(ctx context.Context, review Review) error
	// ListByPlace returns reviews oldest first.
	ListByPlace(ctx context.Context, placeID string) ([]Review, error)
	StatsByPlace(ctx context.Context, placeID string) (Stats, error)
}

// MemoryRepository keeps reviews in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(_ context.Context, review Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *MemoryRepository) ListByPlace(_ context.Context, placeID string) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Review
	for _, review := range r.reviews {
		if review.PlaceID == placeID {
			out = append(out, review)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) StatsByPlace(ctx context.Context, placeID string) (Stats, error) {
	list, err := r.ListByPlace(ctx, placeID)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, review := range list {
		stats.add(review.Sentiment)
	}
	return stats, nil
}
