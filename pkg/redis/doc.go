// Package redis connects a go-redis client with retries and exposes a
// health probe. The session repository in store/redisstore builds on it.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	sessions := redisstore.NewSessions(client, redisstore.WithPrefix(cfg.KeyPrefix))
package redis
