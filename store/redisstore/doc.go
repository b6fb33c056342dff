// Package redisstore keeps sessions in Redis with a TTL derived from the
// session expiry time.
package redisstore
