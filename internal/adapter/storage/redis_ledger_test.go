package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/grocer/internal/port"
)

func getRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

// seedItem writes a uniquely named item so parallel test runs cannot
// collide, and cleans it up afterwards.
func seedItem(t *testing.T, ledger *RedisLedger, client *redis.Client, qty int) string {
	t.Helper()

	item := fmt.Sprintf("test-item-%d", time.Now().UnixNano())
	if err := ledger.SetStock(context.Background(), item, qty); err != nil {
		t.Fatalf("failed to seed stock: %v", err)
	}
	t.Cleanup(func() {
		client.Del(context.Background(), stockKeyPrefix+item)
	})
	return item
}

func TestRedisLedger_ReserveWithinStock(t *testing.T) {
	// Setup
	client := getRedisClient(t)
	defer client.Close()
	ledger := NewRedisLedger(client)
	item := seedItem(t, ledger, client, 100)

	// Test
	take, err := ledger.Reserve(context.Background(), item, 30)

	// Verify
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if take != 30 {
		t.Errorf("expected 30, got %d", take)
	}
	left, err := ledger.Quantity(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left != 70 {
		t.Errorf("expected 70 left, got %d", left)
	}
}

func TestRedisLedger_ReserveCapsAtAvailable(t *testing.T) {
	// Setup
	client := getRedisClient(t)
	defer client.Close()
	ledger := NewRedisLedger(client)
	item := seedItem(t, ledger, client, 100)

	// Test
	take, err := ledger.Reserve(context.Background(), item, 150)

	// Verify
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if take != 100 {
		t.Errorf("expected the reserve capped at 100, got %d", take)
	}
	left, _ := ledger.Quantity(context.Background(), item)
	if left != 0 {
		t.Errorf("expected an empty shelf, got %d", left)
	}
}

func TestRedisLedger_UnknownItem(t *testing.T) {
	// Setup
	client := getRedisClient(t)
	defer client.Close()
	ledger := NewRedisLedger(client)

	// Test & Verify
	if _, err := ledger.Reserve(context.Background(), "never-seeded", 1); !errors.Is(err, port.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem from Reserve, got %v", err)
	}
	if _, err := ledger.Add(context.Background(), "never-seeded", 1); !errors.Is(err, port.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem from Add, got %v", err)
	}
	if _, err := ledger.Quantity(context.Background(), "never-seeded"); !errors.Is(err, port.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem from Quantity, got %v", err)
	}
}

func TestRedisLedger_AddHasNoCap(t *testing.T) {
	// Setup
	client := getRedisClient(t)
	defer client.Close()
	ledger := NewRedisLedger(client)
	item := seedItem(t, ledger, client, 100)

	// Test
	total, err := ledger.Add(context.Background(), item, 1000)

	// Verify
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1100 {
		t.Errorf("expected 1100, got %d", total)
	}
}

func TestRedisLedger_ConcurrentReservesNeverOversell(t *testing.T) {
	// Setup
	client := getRedisClient(t)
	defer client.Close()
	ledger := NewRedisLedger(client)
	item := seedItem(t, ledger, client, 100)

	// Test: 200 single-unit reserves against a stock of 100.
	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			take, err := ledger.Reserve(context.Background(), item, 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			granted.Add(int32(take))
		}()
	}
	wg.Wait()

	// Verify
	if granted.Load() != 100 {
		t.Errorf("expected exactly 100 granted, got %d", granted.Load())
	}
	left, _ := ledger.Quantity(context.Background(), item)
	if left != 0 {
		t.Errorf("expected an empty shelf, got %d", left)
	}
}
