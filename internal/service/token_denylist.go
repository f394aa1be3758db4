package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist registra jti revocados hasta que el token expire solo.
// Pertenecer a la lista significa que el token ya no es válido.
type TokenDenylist interface {
	Revoke(jti string, ttl time.Duration) error
	Revoked(jti string) (bool, error)
}

type memoryTokenDenylist struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryTokenDenylist() TokenDenylist {
	return &memoryTokenDenylist{
		items: make(map[string]time.Time),
	}
}

func (d *memoryTokenDenylist) Revoke(jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	now := time.Now().UTC()
	// Barrido oportunista: los jti ya vencidos no pueden volver a
	// presentarse, así que cada revocación limpia los expirados.
	for id, exp := range d.items {
		if now.After(exp) {
			delete(d.items, id)
		}
	}
	d.items[jti] = now.Add(ttl)
	return nil
}

func (d *memoryTokenDenylist) Revoked(jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(d.items, jti)
		return false, nil
	}
	return true, nil
}

type redisTokenDenylist struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	if client == nil {
		return nil
	}
	return &redisTokenDenylist{
		client: client,
		prefix: "auth:denylist:",
	}
}

func (d *redisTokenDenylist) Revoke(jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return d.client.Set(ctx, d.prefix+jti, "1", ttl).Err()
}

func (d *redisTokenDenylist) Revoked(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
