package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPrefix     = "unifind:session:"
	fieldCredential = "credential"
	fieldProfile    = "profile"
)

// RedisStorage keeps sessions in Redis hashes that expire after ttl of
// inactivity.
type RedisStorage struct {
	client *redis.Client
	sealer *Sealer
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return client, nil
}

// NewRedisStorage returns a Storage backed by client.
func NewRedisStorage(client *redis.Client, sealer *Sealer, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, sealer: sealer, ttl: ttl}
}

// Load implements Storage.
func (s *RedisStorage) Load(ctx context.Context, id string) (Record, bool, error) {
	vals, err := s.client.HGetAll(ctx, redisPrefix+id).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("loading session: %w", err)
	}
	box, ok1 := vals[fieldCredential]
	profile, ok2 := vals[fieldProfile]
	if !ok1 || !ok2 {
		return Record{}, false, nil
	}
	rec, err := decode(s.sealer, []byte(box), profile)
	if err != nil {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Save implements Storage.
func (s *RedisStorage) Save(ctx context.Context, id string, rec Record) error {
	box, profile, err := encode(s.sealer, rec)
	if err != nil {
		return err
	}
	key := redisPrefix + id
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fieldCredential, box, fieldProfile, profile)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear implements Storage.
func (s *RedisStorage) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisPrefix+id).Err(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
