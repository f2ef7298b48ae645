package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const channelPrefix = "changes:"

// RedisHub fans changes out across API instances over Redis pub/sub.
type RedisHub struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisHub(rdb *redis.Client, log *zap.Logger) *RedisHub {
	return &RedisHub{rdb: rdb, log: log}
}

func (h *RedisHub) Publish(ctx context.Context, userID string, ch Change) error {
	raw, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, channelPrefix+userID, raw).Err()
}

func (h *RedisHub) Subscribe(ctx context.Context, userID string) (<-chan Change, func(), error) {
	ps := h.rdb.Subscribe(ctx, channelPrefix+userID)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", userID, err)
	}

	out := make(chan Change, subscriberBuffer)
	stop := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-stop:
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ch Change
				if err := json.Unmarshal([]byte(m.Payload), &ch); err != nil {
					h.log.Warn("dropping malformed change", zap.String("user_id", userID), zap.Error(err))
					continue
				}
				select {
				case out <- ch:
				case <-stop:
					return
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
