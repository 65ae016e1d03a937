package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatchgrid/core/dispatch"
)

func TestPop(t *testing.T) {
	t.Parallel()

	t.Run("fails on empty grid", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		v, ok := c.Pop()
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("sticky read is bounded to 32 consecutive values", func(t *testing.T) {
		t.Parallel()

		const perProducer = 100
		d := dispatch.New[int](128)
		defer d.Close()

		p0, err := d.RegisterProducer()
		require.NoError(t, err)
		p1, err := d.RegisterProducer()
		require.NoError(t, err)
		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		// Both rings stay non-empty for the whole read sequence, so only
		// the sticky policy decides which source is serviced.
		for i := 0; i < perProducer; i++ {
			ok, err := p0.PushTo(c.Index(), 0)
			require.NoError(t, err)
			require.True(t, ok)
			ok, err = p1.PushTo(c.Index(), 1)
			require.NoError(t, err)
			require.True(t, ok)
		}

		counts := map[int]int{}
		source, run, longestRun := -1, 0, 0
		for i := 0; i < 2*perProducer; i++ {
			v, ok := c.Pop()
			require.True(t, ok)
			counts[v]++
			if v == source {
				run++
			} else {
				source, run = v, 1
			}
			if run > longestRun {
				longestRun = run
			}
		}

		assert.LessOrEqual(t, longestRun, 32, "sticky reads must be capped")
		assert.Equal(t, perProducer, counts[0])
		assert.Equal(t, perProducer, counts[1])
	})

	t.Run("drains producers registered after the consumer", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		c, err := d.RegisterConsumer()
		require.NoError(t, err)
		p, err := d.RegisterProducer()
		require.NoError(t, err)

		ok, err := p.Push(5)
		require.NoError(t, err)
		require.True(t, ok)

		v, ok := c.Pop()
		require.True(t, ok)
		assert.Equal(t, 5, v)
	})
}

func TestPopWait(t *testing.T) {
	t.Parallel()

	t.Run("zero timeout returns after a single scan", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		start := time.Now()
		_, ok := c.PopWait(0)
		assert.False(t, ok)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("returns a value arriving before the deadline", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		p, err := d.RegisterProducer()
		require.NoError(t, err)
		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		go func() {
			time.Sleep(10 * time.Millisecond)
			p.Push(77) //nolint:errcheck // ring is empty, cannot fail
		}()

		v, ok := c.PopWait(time.Second)
		require.True(t, ok)
		assert.Equal(t, 77, v)
	})

	t.Run("times out on a silent grid", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		start := time.Now()
		_, ok := c.PopWait(20 * time.Millisecond)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("negative timeout waits indefinitely", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New[int](8)
		defer d.Close()

		p, err := d.RegisterProducer()
		require.NoError(t, err)
		c, err := d.RegisterConsumer()
		require.NoError(t, err)

		go func() {
			time.Sleep(30 * time.Millisecond)
			p.Push(88) //nolint:errcheck // ring is empty, cannot fail
		}()

		v, ok := c.PopWait(-1)
		require.True(t, ok)
		assert.Equal(t, 88, v)
	})
}
