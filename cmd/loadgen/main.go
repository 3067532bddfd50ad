package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/grocer/internal/adapter/handler/rpc"
	"github.com/rl1809/grocer/internal/config"
	"github.com/rl1809/grocer/internal/core/domain"
	"github.com/rl1809/grocer/internal/core/service"
)

func main() {
	var (
		clients     = flag.Int("clients", 5, "concurrent clients")
		orders      = flag.Int("orders", 10, "orders per client")
		restockEach = flag.Int("restock-every", 0, "send a restock every N orders (0 = never)")
		maxLines    = flag.Int("max-lines", 4, "max items per order")
		maxQty      = flag.Int("max-qty", 5, "max quantity per line")
	)
	flag.Parse()

	cfg := config.Load()

	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Printf("dial %s: %v\n", cfg.GRPCAddr, err)
		return
	}
	defer conn.Close()

	inventory := rpc.NewInventoryClient(conn)
	items := domain.DefaultCatalog().Items()
	collector := service.NewCollector()

	var okCount, failCount, partialCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for c := 0; c < *clients; c++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()

			for i := 0; i < *orders; i++ {
				kind := domain.OrderKindFetch
				if *restockEach > 0 && i%*restockEach == *restockEach-1 {
					kind = domain.OrderKindRestock
				}

				req := &rpc.OrderRequest{
					Kind:      string(kind),
					Requester: fmt.Sprintf("loadgen-%d", clientID),
					Lines:     randomLines(items, *maxLines, *maxQty),
				}

				ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
				sent := time.Now()
				reply, err := inventory.ProcessOrder(ctx, req)
				latency := time.Since(sent)
				cancel()

				ev := domain.Event{
					Type:        domain.CompletedEvent(kind),
					TimestampMS: time.Now().UnixMilli(),
					LatencyMS:   latency.Milliseconds(),
					Success:     err == nil,
				}
				if err != nil {
					ev.Type = domain.FailedEvent(kind)
					failCount.Add(1)
				} else {
					okCount.Add(1)
					if reply.Partial {
						partialCount.Add(1)
					}
				}
				collector.Record(ev)
			}
		}(c)
	}

	wg.Wait()
	elapsed := time.Since(start)

	total := *clients * *orders
	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Requests:      %d (%d clients x %d orders)\n", total, *clients, *orders)
	fmt.Printf("Succeeded:     %d\n", okCount.Load())
	fmt.Printf("Partial:       %d\n", partialCount.Load())
	fmt.Printf("Failed:        %d\n", failCount.Load())
	fmt.Printf("Duration:      %v (%.1f req/s)\n", elapsed, float64(total)/elapsed.Seconds())
	for typ, stats := range collector.Snapshot() {
		fmt.Printf("%-18s count=%-4d min=%dms mean=%.0fms max=%dms\n",
			typ, stats.Count, stats.MinMS, stats.MeanMS(), stats.MaxMS)
	}
	fmt.Println("=======================================")
}

func randomLines(items []string, maxLines, maxQty int) []rpc.Line {
	n := 1 + rand.Intn(maxLines)
	lines := make([]rpc.Line, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, rpc.Line{
			ItemID:   items[rand.Intn(len(items))],
			Quantity: 1 + rand.Intn(maxQty),
		})
	}
	return lines
}
