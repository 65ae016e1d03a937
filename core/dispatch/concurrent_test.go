package dispatch_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatchgrid/core/dispatch"
)

// TestConcurrentDelivery drives several producers and consumers at once and
// verifies every accepted value is delivered exactly once.
func TestConcurrentDelivery(t *testing.T) {
	t.Parallel()

	const (
		producers   = 4
		consumers   = 3
		perProducer = 5_000
		total       = producers * perProducer
	)

	d := dispatch.New[int](64)
	defer d.Close()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		p, err := d.RegisterProducer()
		require.NoError(t, err)

		wg.Add(1)
		go func(id int, p *dispatch.Producer[int]) {
			defer wg.Done()
			for n := 0; n < perProducer; n++ {
				v := id*perProducer + n
				for {
					ok, err := p.Push(v)
					if err != nil {
						t.Error(err)
						return
					}
					if ok {
						break
					}
					runtime.Gosched()
				}
			}
		}(i, p)
	}

	var (
		received atomic.Int64
		mu       sync.Mutex
		seen     = make(map[int]int, total)
	)
	var cwg sync.WaitGroup
	for j := 0; j < consumers; j++ {
		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		cwg.Add(1)
		go func(c *dispatch.Consumer[int]) {
			defer cwg.Done()
			local := make([]int, 0, total/consumers)
			for received.Load() < total {
				v, ok := c.PopWait(time.Millisecond)
				if !ok {
					continue
				}
				local = append(local, v)
				received.Add(1)
			}
			mu.Lock()
			for _, v := range local {
				seen[v]++
			}
			mu.Unlock()
		}(c)
	}

	wg.Wait()
	cwg.Wait()

	require.Len(t, seen, total)
	for v, n := range seen {
		require.Equal(t, 1, n, "value %d delivered %d times", v, n)
	}
}

// TestConcurrentRegistration exercises producer churn while the data path
// is busy: slot recycling under the structural mutex must never corrupt
// wiring seen by in-flight pushes and pops.
func TestConcurrentRegistration(t *testing.T) {
	t.Parallel()

	const (
		churners    = 8
		perChurner  = 50
		totalPushed = churners * perChurner
	)

	d := dispatch.New[int](32, dispatch.WithMaxProducers(64), dispatch.WithMaxConsumers(16))
	defer d.Close()

	c, err := d.RegisterConsumer()
	require.NoError(t, err)

	stop := make(chan struct{})
	var delivered atomic.Int64
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, ok := c.Pop(); ok {
				delivered.Add(1)
			} else {
				runtime.Gosched()
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < churners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perChurner; n++ {
				p, err := d.RegisterProducer()
				if err != nil {
					t.Error(err)
					return
				}
				for {
					ok, err := p.Push(n)
					if err != nil {
						t.Error(err)
						return
					}
					if ok {
						break
					}
					runtime.Gosched()
				}
				if err := p.Unregister(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return delivered.Load() == totalPushed
	}, 5*time.Second, time.Millisecond, "every accepted value must be delivered")
	close(stop)

	stats := d.Stats()
	assert.LessOrEqual(t, stats.Producers, churners,
		"churning goroutines reuse slots instead of growing the grid")
}
