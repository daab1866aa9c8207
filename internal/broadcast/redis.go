// Package broadcast mirrors pipeline events onto Redis pub/sub.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

const (
	DefaultChannel   = "sentinel:events"
	DefaultKeyPrefix = "sentinel:signal:"
	DefaultTTL       = 24 * time.Hour
)

// Config selects the Redis server and naming.
type Config struct {
	Addr      string
	Password  string
	DB        int
	Channel   string
	KeyPrefix string
	TTL       time.Duration
}

// RedisPublisher publishes every event as JSON on one channel and keeps the
// latest signal per symbol under KeyPrefix+symbol.
type RedisPublisher struct {
	client    *goredis.Client
	channel   string
	keyPrefix string
	ttl       time.Duration

	mu     sync.Mutex
	latest map[string]string // symbol -> id of its latest signal
}

// NewRedisPublisher connects and pings the server.
func NewRedisPublisher(ctx context.Context, cfg Config) (*RedisPublisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	p := &RedisPublisher{
		client:    client,
		channel:   cfg.Channel,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		latest:    make(map[string]string),
	}
	if p.channel == "" {
		p.channel = DefaultChannel
	}
	if p.keyPrefix == "" {
		p.keyPrefix = DefaultKeyPrefix
	}
	if p.ttl <= 0 {
		p.ttl = DefaultTTL
	}
	log.Info().Str("addr", cfg.Addr).Str("channel", p.channel).Msg("redis broadcast connected")
	return p, nil
}

// SignalKey is the key holding the latest signal for symbol.
func (p *RedisPublisher) SignalKey(symbol string) string { return p.keyPrefix + symbol }

func (p *RedisPublisher) publish(ctx context.Context, ev notifier.Event) error {
	payload, err := encode(ev)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *RedisPublisher) PublishSignal(ctx context.Context, sig model.Signal) error {
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}
	if err := p.client.Set(ctx, p.SignalKey(sig.Symbol), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", sig.Symbol, err)
	}
	p.track(sig.Symbol, sig.ID)
	return p.publish(ctx, notifier.SignalEvent(sig))
}

func (p *RedisPublisher) PublishStatus(ctx context.Context, st model.Status) error {
	return p.publish(ctx, notifier.StatusEvent(st))
}

// PublishDismiss removes the symbol's latest-signal key when it still holds
// the dismissed signal, then announces the dismissal.
func (p *RedisPublisher) PublishDismiss(ctx context.Context, id string) error {
	if symbol, ok := p.untrack(id); ok {
		key := p.SignalKey(symbol)
		raw, err := p.client.Get(ctx, key).Bytes()
		switch {
		case err == goredis.Nil:
		case err != nil:
			return fmt.Errorf("redis get %s: %w", key, err)
		case storedID(raw) == id:
			if err := p.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("redis del %s: %w", key, err)
			}
		}
	}
	return p.publish(ctx, notifier.DismissEvent(id))
}

// track records id as the symbol's latest signal, replacing the previous one.
func (p *RedisPublisher) track(symbol, id string) {
	p.mu.Lock()
	p.latest[symbol] = id
	p.mu.Unlock()
}

// untrack forgets id and reports the symbol it was latest for. Superseded
// ids are no longer tracked.
func (p *RedisPublisher) untrack(id string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for symbol, latest := range p.latest {
		if latest == id {
			delete(p.latest, symbol)
			return symbol, true
		}
	}
	return "", false
}

// Ping checks the connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func encode(ev notifier.Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	return b, nil
}

func storedID(raw []byte) string {
	var s struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s.ID
}
