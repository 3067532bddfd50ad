package service

import (
	"sync"
	"testing"

	"github.com/rl1809/grocer/internal/core/domain"
)

func TestCollector_RecordAggregates(t *testing.T) {
	collector := NewCollector()

	collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 120, Success: true})
	collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 80, Success: true})
	collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 400, Success: false})

	stats := collector.Snapshot()[domain.EventOrderCompleted]
	if stats.Count != 3 {
		t.Errorf("expected count 3, got %d", stats.Count)
	}
	if stats.Succeeded != 2 {
		t.Errorf("expected 2 succeeded, got %d", stats.Succeeded)
	}
	if stats.MinMS != 80 || stats.MaxMS != 400 {
		t.Errorf("expected min 80 max 400, got %d/%d", stats.MinMS, stats.MaxMS)
	}
	if mean := stats.MeanMS(); mean != 200 {
		t.Errorf("expected mean 200, got %v", mean)
	}
}

func TestCollector_TracksTypesSeparately(t *testing.T) {
	collector := NewCollector()

	collector.Record(domain.Event{Type: domain.EventOrderReceived, LatencyMS: 0, Success: true})
	collector.Record(domain.Event{Type: domain.EventOrderFailed, LatencyMS: 50, Success: false})

	snapshot := collector.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 event types, got %d", len(snapshot))
	}
	if snapshot[domain.EventOrderReceived].Count != 1 || snapshot[domain.EventOrderFailed].Count != 1 {
		t.Errorf("unexpected counts: %+v", snapshot)
	}
}

func TestCollector_SnapshotIsACopy(t *testing.T) {
	collector := NewCollector()
	collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 100, Success: true})

	before := collector.Snapshot()
	collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 100, Success: true})

	if before[domain.EventOrderCompleted].Count != 1 {
		t.Error("snapshot must not track later records")
	}
}

func TestCollector_ConcurrentRecords(t *testing.T) {
	collector := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.Record(domain.Event{Type: domain.EventOrderCompleted, LatencyMS: 10, Success: true})
		}()
	}
	wg.Wait()

	if got := collector.Snapshot()[domain.EventOrderCompleted].Count; got != 100 {
		t.Errorf("expected 100 events, got %d", got)
	}
}
