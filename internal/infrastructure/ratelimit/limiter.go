// Package ratelimit implementa janelas fixas de tentativas por chave,
// em memória ou compartilhadas via Redis.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
)

// Config define quantas tentativas cabem em cada janela
type Config struct {
	Limit  int
	Window time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter conta tentativas por chave no próprio processo
type MemoryLimiter struct {
	config Config

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		if len(l.windows) > 10000 {
			l.sweep(now)
		}
		w = &window{resetAt: now.Add(l.config.Window)}
		l.windows[key] = w
	}

	w.count++
	return w.count <= l.config.Limit, nil
}

// sweep descarta janelas vencidas; chamado com o lock adquirido
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// RedisLimiter compartilha as janelas entre instâncias
type RedisLimiter struct {
	client *redis.Client
	config Config
	prefix string
}

var _ ports.RateLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, config Config, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, config: config, prefix: prefix}
}

// Allow incrementa o contador e define a expiração na mesma transação; EXPIRE NX
// mantém o prazo do primeiro acerto da janela.
// Em erro do Redis a requisição é liberada e o erro devolvido para log.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.config.Window)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}

	return incr.Val() <= int64(l.config.Limit), nil
}
