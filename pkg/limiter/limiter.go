// Package limiter implements per-client sliding window admission control.
// Each client key keeps the timestamps of its recent requests; a request is
// admitted while fewer than Requests timestamps fall inside the window.
package limiter

import (
	"sync"
	"time"

	"github.com/creasty/defaults"
)

// Config controls the admission window and idle key eviction.
type Config struct {
	// Requests is the number of requests admitted per window.
	Requests int `default:"10"`
	// Window is the sliding window length.
	Window time.Duration `default:"60s"`
	// IdleTTL is how long an inactive key is kept before the janitor
	// evicts it.
	IdleTTL time.Duration `default:"120s"`
	// SweepInterval is how often the janitor scans for idle keys.
	SweepInterval time.Duration `default:"60s"`
}

type clientWindow struct {
	hits     []time.Time
	lastSeen time.Time
}

// Limiter tracks request timestamps per client key.
type Limiter struct {
	cfg Config

	mu      sync.Mutex
	clients map[string]*clientWindow

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a limiter and starts its janitor goroutine. Callers must
// Close the limiter when done with it.
func New(cfg Config) *Limiter {
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}

	l := &Limiter{
		cfg:     cfg,
		clients: make(map[string]*clientWindow),
		done:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Admit reports whether a request from key at time now is allowed, and
// records it when it is. Rejected requests are not recorded, so a client
// hammering the endpoint does not extend its own penalty.
func (l *Limiter) Admit(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[key]
	if !ok {
		cw = &clientWindow{}
		l.clients[key] = cw
	}
	cw.lastSeen = now

	cutoff := now.Add(-l.cfg.Window)
	kept := cw.hits[:0]
	for _, ts := range cw.hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	cw.hits = kept

	if len(cw.hits) >= l.cfg.Requests {
		return false
	}
	cw.hits = append(cw.hits, now)
	return true
}

// Len returns the number of tracked client keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Close stops the janitor goroutine.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

func (l *Limiter) janitor() {
	ticker := time.NewTicker(l.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.cfg.IdleTTL)
	for key, cw := range l.clients {
		if cw.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}
