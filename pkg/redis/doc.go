// Package redis connects to Redis with retries. The client backs the shared
// rate-limit store when more than one server instance is running.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
