package service

import (
	"sync"

	"github.com/rl1809/grocer/internal/core/domain"
)

// Collector keeps running statistics per analytics event type.
type Collector struct {
	mu    sync.Mutex
	stats map[domain.EventType]*EventStats
}

// EventStats aggregates one event type. Latency figures are milliseconds.
type EventStats struct {
	Count     int64
	Succeeded int64
	MinMS     int64
	MaxMS     int64
	totalMS   int64
}

func (s EventStats) MeanMS() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.totalMS) / float64(s.Count)
}

func NewCollector() *Collector {
	return &Collector{stats: make(map[domain.EventType]*EventStats)}
}

// Record folds one event into the running stats.
func (c *Collector) Record(ev domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stats[ev.Type]
	if !ok {
		s = &EventStats{MinMS: ev.LatencyMS, MaxMS: ev.LatencyMS}
		c.stats[ev.Type] = s
	}

	s.Count++
	if ev.Success {
		s.Succeeded++
	}
	s.totalMS += ev.LatencyMS
	if ev.LatencyMS < s.MinMS {
		s.MinMS = ev.LatencyMS
	}
	if ev.LatencyMS > s.MaxMS {
		s.MaxMS = ev.LatencyMS
	}
}

// Snapshot copies the current stats for reporting.
func (c *Collector) Snapshot() map[domain.EventType]EventStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[domain.EventType]EventStats, len(c.stats))
	for typ, s := range c.stats {
		out[typ] = *s
	}
	return out
}
