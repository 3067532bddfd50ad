package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/grocer/internal/port"
)

const stockKeyPrefix = "stock:"

// reserveScript caps the deduction at the available stock and returns the
// amount actually taken, so observe+deduct is one atomic step on the server.
// -1 means the item was never seeded.
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local want = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return -1
end

current = tonumber(current)
local take = want
if take > current then
	take = current
end
if take < 0 then
	take = 0
end
if take > 0 then
	redis.call('DECRBY', key, take)
end

return take
`)

var addScript = redis.NewScript(`
local key = KEYS[1]

if redis.call('EXISTS', key) == 0 then
	return -1
end

return redis.call('INCRBY', key, ARGV[1])
`)

// RedisLedger is the alternative ledger backend for deployments where the
// coordinator's stock state should survive a process restart.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (r *RedisLedger) Reserve(ctx context.Context, itemID string, qty int) (int, error) {
	key := stockKeyPrefix + itemID

	take, err := reserveScript.Run(ctx, r.client, []string{key}, qty).Int()
	if err != nil {
		return 0, fmt.Errorf("reserve %s: %w", itemID, err)
	}
	if take < 0 {
		return 0, port.ErrUnknownItem
	}

	return take, nil
}

func (r *RedisLedger) Add(ctx context.Context, itemID string, qty int) (int, error) {
	key := stockKeyPrefix + itemID

	if qty < 0 {
		qty = 0
	}
	count, err := addScript.Run(ctx, r.client, []string{key}, qty).Int()
	if err != nil {
		return 0, fmt.Errorf("add %s: %w", itemID, err)
	}
	if count < 0 {
		return 0, port.ErrUnknownItem
	}

	return count, nil
}

func (r *RedisLedger) Quantity(ctx context.Context, itemID string) (int, error) {
	count, err := r.client.Get(ctx, stockKeyPrefix+itemID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, port.ErrUnknownItem
	}
	if err != nil {
		return 0, fmt.Errorf("quantity %s: %w", itemID, err)
	}

	return count, nil
}

// SetStock seeds or resets one item's count; the coordinator calls it for
// every catalog item at startup.
func (r *RedisLedger) SetStock(ctx context.Context, itemID string, qty int) error {
	return r.client.Set(ctx, stockKeyPrefix+itemID, qty, 0).Err()
}
