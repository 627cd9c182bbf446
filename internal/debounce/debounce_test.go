package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applied struct {
	query  string
	result string
}

func TestDebounceCoalescesInput(t *testing.T) {
	var calls int32
	results := make(chan applied, 10)
	d := New(context.Background(), 30*time.Millisecond,
		func(ctx context.Context, q string) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "r:" + q, nil
		},
		func(q, r string, err error) { results <- applied{q, r} },
	)
	defer d.Stop()

	d.Input("v")
	d.Input("vh")
	d.Input("vht")

	select {
	case got := <-results:
		assert.Equal(t, applied{"vht", "r:vht"}, got)
	case <-time.After(time.Second):
		t.Fatal("lookup never applied")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, results)
}

func TestDebounceDropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)
	var cancelled sync.WaitGroup
	cancelled.Add(1)

	results := make(chan applied, 10)
	d := New(context.Background(), 0,
		func(ctx context.Context, q string) (string, error) {
			started <- q
			if q == "slow" {
				<-ctx.Done()
				cancelled.Done()
				<-release
				return "slow result", ctx.Err()
			}
			return "fast result", nil
		},
		func(q, r string, err error) { results <- applied{q, r} },
	)
	defer d.Stop()

	first := d.Run("slow")
	require.Equal(t, "slow", <-started)

	second := d.Run("fast")
	assert.Greater(t, second, first)
	cancelled.Wait()
	close(release)

	select {
	case got := <-results:
		assert.Equal(t, applied{"fast", "fast result"}, got)
	case <-time.After(time.Second):
		t.Fatal("latest lookup never applied")
	}
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, results, "stale response must be dropped")
}

func TestDebounceStopAndCancel(t *testing.T) {
	results := make(chan applied, 10)
	d := New(context.Background(), 20*time.Millisecond,
		func(ctx context.Context, q string) (string, error) { return q, nil },
		func(q, r string, err error) { results <- applied{q, r} },
	)

	d.Input("a")
	d.Cancel()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, results)

	d.Stop()
	seq := d.Latest()
	assert.Equal(t, seq, d.Input("b"))
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, results)
}
