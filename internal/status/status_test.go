package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSummaryOperational(t *testing.T) {
	p := NewProber()
	p.Register("cms", func(context.Context) error { return nil })

	s := p.Summary(context.Background())
	assert.True(t, s.Operational())
	require.Len(t, s.Components, 1)
	assert.Equal(t, Component{Name: "cms", Status: StateOperational}, s.Components[0])
}

func TestSummaryDegradedWhenAnyCheckFails(t *testing.T) {
	p := NewProber()
	p.Register("cms", func(context.Context) error { return errors.New("connection refused") })
	p.Register("templates", func(context.Context) error { return nil })

	s := p.Summary(context.Background())
	assert.Equal(t, StateDegraded, s.State)
	assert.Equal(t, []Component{
		{Name: "cms", Status: StateDegraded, Detail: "connection refused"},
		{Name: "templates", Status: StateOperational},
	}, s.Components)
}

func TestSummaryIsCachedForTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	var calls atomic.Int32
	p := NewProber(WithTTL(10*time.Second), WithClock(clock.now))
	p.Register("cms", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	first := p.Summary(context.Background())
	clock.advance(5 * time.Second)
	second := p.Summary(context.Background())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first.CheckedAt, second.CheckedAt)

	clock.advance(6 * time.Second)
	third := p.Summary(context.Background())
	assert.Equal(t, int32(2), calls.Load())
	assert.True(t, third.CheckedAt.After(first.CheckedAt))
}

func TestSummaryServesPreviousResultDuringRefresh(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	var (
		calls   atomic.Int32
		block   atomic.Bool
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	p := NewProber(WithTTL(10*time.Second), WithClock(clock.now), WithCheckTimeout(time.Minute))
	p.Register("cms", func(context.Context) error {
		calls.Add(1)
		if block.Load() {
			close(entered)
			<-release
		}
		return nil
	})

	first := p.Summary(context.Background())
	clock.advance(11 * time.Second)
	block.Store(true)

	done := make(chan Summary)
	go func() { done <- p.Summary(context.Background()) }()
	<-entered

	stale := p.Summary(context.Background())
	assert.Equal(t, first.CheckedAt, stale.CheckedAt)

	close(release)
	fresh := <-done
	assert.True(t, fresh.CheckedAt.After(first.CheckedAt))
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheckTimeout(t *testing.T) {
	p := NewProber(WithCheckTimeout(10 * time.Millisecond))
	p.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	s := p.Summary(context.Background())
	require.Len(t, s.Components, 1)
	assert.Equal(t, context.DeadlineExceeded.Error(), s.Components[0].Detail)
}

func TestHandler(t *testing.T) {
	healthy := true
	p := NewProber(WithTTL(time.Nanosecond))
	p.Register("cms", func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("cms: categories request: EOF")
	})

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	healthy = false
	time.Sleep(time.Millisecond)
	rec = httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StateDegraded, body.State)
	assert.Equal(t, "cms", body.Components[0].Name)
}
