package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"consentd/internal/consent"
	"consentd/pkg/platform/sentinel"
	"consentd/pkg/requestcontext"
)

// checkAndInsertScript performs the sliding-window count, the burst count,
// and the record write as one atomic unit on the Redis side.
//
// KEYS[1] = per-user event zset, KEYS[2] = per-user record list
// ARGV: now_ms, window_ms, max_requests, burst_ms, burst_max, member, record
var checkAndInsertScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local burst_window = tonumber(ARGV[4])
local burst_max = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)
local count = redis.call('ZCARD', KEYS[1])
if count >= max then
  return 0
end
if burst_max > 0 then
  local burst = redis.call('ZCOUNT', KEYS[1], '(' .. (now - burst_window), '+inf')
  if burst >= burst_max then
    return 0
  end
end
redis.call('ZADD', KEYS[1], now, ARGV[6])
redis.call('PEXPIRE', KEYS[1], window)
redis.call('RPUSH', KEYS[2], ARGV[7])
return 1
`)

// RedisStore implements the check-and-insert contract with a Lua script, so
// the quota decision and the insert execute atomically on the server.
type RedisStore struct {
	client redis.Scripter
}

// NewRedis creates a redis-backed store on an established client.
func NewRedis(client redis.Scripter) *RedisStore {
	return &RedisStore{client: client}
}

func eventsKey(userID string) string  { return "consent:events:" + userID }
func recordsKey(userID string) string { return "consent:records:" + userID }

// CheckAndInsert runs the atomic script for the user.
func (s *RedisStore) CheckAndInsert(ctx context.Context, rec consent.Record, policy consent.RatePolicy) (bool, error) {
	payload, err := json.Marshal(map[string]any{
		"user_id": rec.UserID,
		"version": rec.Version,
		"scopes":  rec.Scopes,
	})
	if err != nil {
		return false, fmt.Errorf("marshal consent record: %w", err)
	}

	now := requestcontext.Now(ctx)
	result, err := checkAndInsertScript.Run(ctx, s.client,
		[]string{eventsKey(rec.UserID), recordsKey(rec.UserID)},
		now.UnixMilli(),
		policy.Window.Milliseconds(),
		policy.MaxRequests,
		policy.BurstWindow().Milliseconds(),
		policy.BurstMax,
		fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString()),
		payload,
	).Int()
	if err != nil {
		return false, fmt.Errorf("consent check-and-insert script: %w: %v", sentinel.ErrUnavailable, err)
	}
	return result == 1, nil
}
