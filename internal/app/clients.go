package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/danfirsten/Standup/internal/events"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/temporalx"
)

type Clients struct {
	// Redis is nil when REDIS_ADDR is unset.
	Redis    redis.UniversalClient
	Bus      events.Bus
	Temporal temporalsdkclient.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		bus, err := events.NewRedisBus(log, rdb, cfg.RedisChannel, metrics)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		out.Redis = rdb
		out.Bus = bus
	} else {
		log.Info("REDIS_ADDR not set; memory events are dropped")
		out.Bus = events.NewNoopBus()
	}

	tc, err := temporalx.NewClient(log, cfg.Temporal)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init temporal client: %w", err)
	}
	out.Temporal = tc
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
		c.Temporal = nil
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
		c.Bus = nil
	}
}
