// Package cache реализует read-through кеш карточек сладостей поверх redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/sweet-shop/internal/config"
)

type Cache struct {
	Db *redis.Client
}

func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		Username:     cfg.RedisUser,
		MaxRetries:   cfg.RedisMaxRetries,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisTimeout,
		WriteTimeout: cfg.RedisTimeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get читает значение по ключу в result. false без ошибки означает промах.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// generationTTL срок жизни счётчика версий; он намного больше времени одного запроса.
const generationTTL = 24 * time.Hour

func generationKey(key string) string {
	return key + ":gen"
}

// setIfGeneration пишет значение, только если счётчик версий ключа не изменился.
// Отсутствующий счётчик читается как "0".
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2])
if (gen or "0") ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// Generation возвращает текущую версию ключа. Invalidate увеличивает её.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	const op = "cache.Generation"
	gen, err := c.Db.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return gen, nil
}

// SetIfGeneration сохраняет value, если с момента чтения gen ключ не инвалидировали.
// false без ошибки означает, что значение устарело и не записано.
func (c *Cache) SetIfGeneration(ctx context.Context, key string, gen int64, value any, expiration time.Duration) (bool, error) {
	const op = "cache.SetIfGeneration"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	stored, err := setIfGeneration.Run(ctx, c.Db,
		[]string{key, generationKey(key)},
		gen, jsonData, expiration.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return stored == 1, nil
}

// Invalidate удаляет значение и увеличивает версию ключа в одной транзакции,
// чтобы запоздавшее чтение не вернуло старую запись в кеш.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	const op = "cache.Invalidate"
	_, err := c.Db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Expire(ctx, generationKey(key), generationTTL)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.Db.Close()
}

// Noop используется, когда redis не настроен: всегда промах.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (Noop) SetIfGeneration(context.Context, string, int64, any, time.Duration) (bool, error) {
	return false, nil
}
func (Noop) Invalidate(context.Context, string) error { return nil }
