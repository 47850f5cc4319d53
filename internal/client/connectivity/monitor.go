// Package connectivity tracks backend reachability. A Monitor probes the
// server on an interval and exposes the current online/offline snapshot
// plus change notifications; it performs no retry or backoff of its own.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duabook/duabook/internal/logging"
)

// Pinger is the probe the monitor runs; a non-nil error means offline.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor holds the process-wide connectivity state. Until the first probe
// completes it reports online: the client's bias is "try the network, fall
// back on failure", never "assume offline".
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu   sync.Mutex
	subs []chan bool
}

// NewMonitor returns a Monitor probing pinger every interval.
func NewMonitor(pinger Pinger, interval time.Duration, log logging.Logger) *Monitor {
	m := &Monitor{pinger: pinger, interval: interval, log: log}
	m.online.Store(true)
	return m
}

// IsOnline returns the current connectivity snapshot.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Subscribe returns a channel that receives the new state on every
// transition. The channel is buffered; a slow consumer only ever misses
// intermediate flips, never the latest state relative to IsOnline.
func (m *Monitor) Subscribe() <-chan bool {
	ch := make(chan bool, 8)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// SetOnline records the state and notifies subscribers on change. Exposed
// so tests and forced-offline modes can drive the monitor directly.
func (m *Monitor) SetOnline(v bool) {
	if m.online.Swap(v) == v {
		return
	}
	if m.log != nil {
		if v {
			m.log.Info(context.Background(), "switched to online mode")
		} else {
			m.log.Info(context.Background(), "switched to offline mode")
		}
	}

	m.mu.Lock()
	subs := make([]chan bool, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Run probes the backend until ctx is done. Each probe gets its own short
// timeout so a hung request cannot stall the loop.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := m.pinger.Ping(probeCtx)
			cancel()

			m.SetOnline(err == nil)

		case <-ctx.Done():
			return
		}
	}
}
