package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

type RedisConversationRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisConversationRepository stores one JSON document per conversation.
// A zero ttl keeps conversations until cleared.
func NewRedisConversationRepository(rdb redis.Cmdable, ttl time.Duration) *RedisConversationRepository {
	return &RedisConversationRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisConversationRepository) conversationKey(key model.ConversationKey) string {
	return fmt.Sprintf("conversation:%s:%s:state", key.Platform, key.UserID)
}

func (r *RedisConversationRepository) Load(ctx context.Context, key model.ConversationKey) (*model.ConversationState, error) {
	redisKey := r.conversationKey(key)

	raw, err := r.rdb.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewConversationState(), nil
		}
		logx.Error().Err(err).Str("key", redisKey).Msg("failed to load conversation state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		logx.Error().Err(err).Str("key", redisKey).Msg("failed to unmarshal conversation state")
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	return state.Normalize(), nil
}

func (r *RedisConversationRepository) Save(ctx context.Context, key model.ConversationKey, state *model.ConversationState) error {
	redisKey := r.conversationKey(key)

	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("key", redisKey).Msg("failed to marshal conversation state")
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	// Set with a zero expiration keeps the key forever
	if err := r.rdb.Set(ctx, redisKey, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", redisKey).Msg("failed to save conversation state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConversationRepository) Clear(ctx context.Context, key model.ConversationKey) error {
	redisKey := r.conversationKey(key)
	if err := r.rdb.Del(ctx, redisKey).Err(); err != nil {
		logx.Error().Err(err).Str("key", redisKey).Msg("failed to delete conversation state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.ConversationRepository = (*RedisConversationRepository)(nil)
