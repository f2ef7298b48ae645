package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	availabilityPrefix = "availability:"
	generationPrefix   = "availability:gen:"
)

// setIfCurrent writes the entry only while the reader's generation still
// matches the one observed before the store was read.
var setIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisAvailability caches reconciled availability per reader. Every
// booking or slot mutation must invalidate the reader's entry, which also
// bumps its generation so fills computed from older reads are dropped.
type RedisAvailability struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisAvailability(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisAvailability {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisAvailability{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisAvailability) Get(ctx context.Context, readerID string) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, availabilityPrefix+readerID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("availability cache read failed", zap.String("reader_id", readerID), zap.Error(err))
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("availability cache entry corrupt", zap.String("reader_id", readerID), zap.Error(err))
		return nil, false
	}
	return slots, true
}

// Version returns the reader's current generation. Take it before reading
// the store and pass it to Set. -1 means unknown and disables the fill.
func (c *RedisAvailability) Version(ctx context.Context, readerID string) int64 {
	v, err := c.rdb.Get(ctx, generationPrefix+readerID).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		c.log.Warn("availability generation read failed", zap.String("reader_id", readerID), zap.Error(err))
		return -1
	}
	return v
}

func (c *RedisAvailability) Set(ctx context.Context, readerID string, version int64, slots []string) {
	if version < 0 {
		return
	}
	if slots == nil {
		slots = []string{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	keys := []string{availabilityPrefix + readerID, generationPrefix + readerID}
	stored, err := setIfCurrent.Run(ctx, c.rdb, keys, strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn("availability cache write failed", zap.String("reader_id", readerID), zap.Error(err))
		return
	}
	if stored == 0 {
		c.log.Debug("availability cache fill skipped, entry invalidated meanwhile", zap.String("reader_id", readerID))
	}
}

func (c *RedisAvailability) Invalidate(ctx context.Context, readerIDs ...string) {
	if len(readerIDs) == 0 {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range readerIDs {
			pipe.Incr(ctx, generationPrefix+id)
			pipe.Del(ctx, availabilityPrefix+id)
		}
		return nil
	})
	if err != nil {
		c.log.Warn("availability cache invalidate failed", zap.Strings("reader_ids", readerIDs), zap.Error(err))
	}
}

// Nop is used when Redis is not configured: every read is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]string, bool) { return nil, false }
func (Nop) Version(context.Context, string) int64        { return 0 }
func (Nop) Set(context.Context, string, int64, []string) {}
func (Nop) Invalidate(context.Context, ...string)        {}
