// Package redis connects to Redis with retries. The refresh token and OAuth
// state stores in pkg/store/redisstore build on the returned client.
package redis
