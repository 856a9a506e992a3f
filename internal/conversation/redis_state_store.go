package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStateStore keeps conversation state as JSON in Redis. A zero ttl keeps keys
// until they are deleted.
type RedisStateStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	now    func() time.Time
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStateStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("campus.internal.conversation.state")
	}
	return &RedisStateStore{redis: client, ttl: ttl, tracer: tracer, now: time.Now}
}

func (s *RedisStateStore) Get(ctx context.Context, sessionID string) (ConversationState, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_state")
	defer span.End()

	data, err := s.redis.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ConversationState{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return ConversationState{}, fmt.Errorf("conversation: failed to load state: %w", err)
	}

	var state ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return ConversationState{}, fmt.Errorf("conversation: failed to decode state: %w", err)
	}
	return state, nil
}

func (s *RedisStateStore) Set(ctx context.Context, sessionID string, state ConversationState) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_state")
	defer span.End()

	state.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, stateKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("conversation: failed to delete state: %w", err)
	}
	return nil
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("campus:state:%s", sessionID)
}
