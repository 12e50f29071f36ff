package world

import (
	"sync"
	"sync/atomic"
	"time"
)

// metrics tracks tick timing and generation-backpressure counters: a
// rolling tick-duration average plus a debounced saturation warning.
type metrics struct {
	mu         sync.Mutex
	tickDurs   []time.Duration
	lastTick   time.Duration

	generationSaturated atomic.Uint64
	lastSaturationWarn   atomic.Int64 // unix nano, 0 if never
}

func newMetrics() *metrics {
	return &metrics{}
}

const tickHistoryLen = 100

// observeTick records a completed tick's wall-clock duration.
func (m *metrics) observeTick(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTick = d
	m.tickDurs = append(m.tickDurs, d)
	if len(m.tickDurs) > tickHistoryLen {
		m.tickDurs = m.tickDurs[1:]
	}
}

// tps returns the rolling-average ticks-per-second over the recorded
// history, or 0 if no ticks have run yet.
func (m *metrics) tps() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tickDurs) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range m.tickDurs {
		total += d
	}
	avg := total / time.Duration(len(m.tickDurs))
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// incSaturation records one tick whose generation candidates exceeded the
// per-tick generation budget.
func (m *metrics) incSaturation() {
	m.generationSaturated.Add(1)
}

// saturationCount returns the total number of saturated generation ticks
// observed so far.
func (m *metrics) saturationCount() uint64 {
	return m.generationSaturated.Load()
}
