package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

const DefaultChannel = "memory-events"

type redisBus struct {
	log     *logger.Logger
	rdb     redis.UniversalClient
	channel string
	metrics *observability.Metrics
}

// NewRedisBus publishes on channel through rdb. The bus owns rdb and closes it.
func NewRedisBus(log *logger.Logger, rdb redis.UniversalClient, channel string, metrics *observability.Metrics) (Bus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("missing redis client")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &redisBus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: channel,
		metrics: metrics,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		b.metrics.IncEventPublished(string(ev.Type), "encode_error")
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.metrics.IncEventPublished(string(ev.Type), "error")
		return fmt.Errorf("redis publish: %w", err)
	}
	b.metrics.IncEventPublished(string(ev.Type), "ok")
	return nil
}

func (b *redisBus) Subscribe(ctx context.Context, fn Handler) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// Receive blocks until the subscription is confirmed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad memory event payload", "error", err)
					continue
				}
				fn(ev)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
