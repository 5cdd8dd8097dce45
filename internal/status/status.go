// Package status reports whether the storefront's upstream dependencies are usable.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finitefield.org/storefront-web/internal/platform/requestctx"
)

const (
	StateOperational = "operational"
	StateDegraded    = "degraded"

	defaultTTL          = 15 * time.Second
	defaultCheckTimeout = 3 * time.Second
)

// Summary captures the state of every checked component at CheckedAt.
type Summary struct {
	State      string      `json:"state"`
	CheckedAt  time.Time   `json:"checked_at"`
	Components []Component `json:"components"`
}

// Operational reports whether every component passed.
func (s Summary) Operational() bool {
	return s.State == StateOperational
}

// Component is the result of one check.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// CheckFunc checks one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name string
	fn   CheckFunc
}

// Prober runs checks and caches the summary for a short TTL so that frequent
// readiness requests do not hammer upstreams. Concurrent refreshes are coalesced, and while
// one is running callers get the previous summary instead of waiting.
type Prober struct {
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	flight  singleflight.Group

	mu         sync.Mutex
	checks     []check
	cached     Summary
	hasCached  bool
	expires    time.Time
	refreshing bool
}

// Option customises a Prober.
type Option func(*Prober)

// WithTTL sets how long a summary is reused.
func WithTTL(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.ttl = d
		}
	}
}

// WithCheckTimeout bounds each individual check.
func WithCheckTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithClock overrides time.Now (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProber builds a prober with no checks.
func NewProber(opts ...Option) *Prober {
	p := &Prober{ttl: defaultTTL, timeout: defaultCheckTimeout, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds a named check. Checks run in registration order.
func (p *Prober) Register(name string, fn CheckFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks = append(p.checks, check{name: name, fn: fn})
	p.expires = time.Time{}
}

// Summary returns the cached summary, running the checks when it has expired.
func (p *Prober) Summary(ctx context.Context) Summary {
	p.mu.Lock()
	if p.hasCached && (p.now().Before(p.expires) || p.refreshing) {
		s := cloneSummary(p.cached)
		p.mu.Unlock()
		return s
	}
	p.mu.Unlock()

	v, _, _ := p.flight.Do("summary", func() (any, error) {
		return p.refresh(ctx), nil
	})
	return cloneSummary(v.(Summary))
}

// refresh runs every check without holding mu and stores the result.
func (p *Prober) refresh(ctx context.Context) Summary {
	p.mu.Lock()
	p.refreshing = true
	checks := slices.Clone(p.checks)
	now := p.now()
	p.mu.Unlock()

	summary := Summary{State: StateOperational, CheckedAt: now}
	for _, c := range checks {
		comp := Component{Name: c.name, Status: StateOperational}
		if err := p.run(ctx, c); err != nil {
			comp.Status = StateDegraded
			comp.Detail = err.Error()
			summary.State = StateDegraded
			requestctx.Logger(ctx).Warn("status check failed", zap.String("component", c.name), zap.Error(err))
		}
		summary.Components = append(summary.Components, comp)
	}

	p.mu.Lock()
	p.cached, p.hasCached = summary, true
	p.expires = now.Add(p.ttl)
	p.refreshing = false
	p.mu.Unlock()
	return summary
}

func (p *Prober) run(ctx context.Context, c check) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return c.fn(ctx)
}

// Handler answers with the summary as JSON: 200 when operational, 503 otherwise.
func (p *Prober) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		summary := p.Summary(r.Context())
		status := http.StatusOK
		if !summary.Operational() {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(summary)
	})
}

func cloneSummary(src Summary) Summary {
	cp := src
	if len(src.Components) > 0 {
		cp.Components = make([]Component, len(src.Components))
		copy(cp.Components, src.Components)
	}
	return cp
}
