package database

import (
	"context"
	"reports-api/utils"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

func OpenRedis(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, eris.Wrapf(utils.ErrConfiguration, "invalid REDIS_URI: %v", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, eris.Wrapf(utils.ErrConnectivity, "redis ping: %v", err)
	}
	return client, nil
}
