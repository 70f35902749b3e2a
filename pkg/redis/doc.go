// Package redis connects to the Redis server backing the local user store.
//
// Config is populated from the environment through pkg/config:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Connect retries the initial ping; Healthcheck plugs the client into the
// readiness endpoint served by pkg/httpserver.
package redis
