package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hexsweeper"

func recordKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, id)
}

// bestKey is the sorted set of won records for one field size, scored by
// elapsed seconds.
func bestKey(p Params) string {
	return fmt.Sprintf("%s:best:%d:%d", keyPrefix, p.Radius, p.Mines)
}

// Members with equal scores sort lexicographically, so the finish time is
// zero-padded ahead of the id.
func bestMember(r Record) string {
	return fmt.Sprintf("%015d:%s", r.FinishedAt.UnixMilli(), r.ID)
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	// LostTTL expires records of lost rounds. Won records are kept.
	LostTTL time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		LostTTL:      7 * 24 * time.Hour,
	}
}

type Redis struct {
	client *redis.Client
	cfg    RedisConfig
}

var _ Store = (*Redis)(nil)

func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis: %w", err)
	}
	return NewRedis(client, cfg), nil
}

func NewRedis(client *redis.Client, cfg RedisConfig) *Redis {
	return &Redis{client: client, cfg: cfg}
}

func (s *Redis) Save(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if !r.Won {
		ttl = s.cfg.LostTTL
	}
	ok, err := s.client.SetNX(ctx, recordKey(r.ID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	if !r.Won {
		return nil
	}
	return s.client.ZAdd(ctx, bestKey(r.Params()), redis.Z{
		Score:  float64(r.ElapsedSeconds),
		Member: bestMember(r),
	}).Err()
}

func (s *Redis) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	data, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err == redis.Nil {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Redis) Best(ctx context.Context, p Params, limit int) ([]Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := s.client.ZRange(ctx, bestKey(p), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	rs := make([]Record, 0, len(members))
	if len(members) == 0 {
		return rs, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		_, id, _ := strings.Cut(m, ":")
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("malformed best member %q: %w", m, err)
		}
		keys[i] = recordKey(uid)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}
