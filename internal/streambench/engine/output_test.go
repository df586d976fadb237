package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

func TestOutputChannel_FIFO(t *testing.T) {
	c := NewOutputChannel()
	_, ok := c.TryReceive()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		c.Send(record.Generate(i))
	}
	assert.Equal(t, 5, c.Len())

	for i := 0; i < 3; i++ {
		r, ok := c.TryReceive()
		require.True(t, ok)
		assert.Equal(t, int64(i), r.Offset)
	}
	c.Send(record.Generate(5))
	for i := 3; i < 6; i++ {
		r, ok := c.TryReceive()
		require.True(t, ok)
		assert.Equal(t, int64(i), r.Offset)
	}
	_, ok = c.TryReceive()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(6), c.Sent())
}

func TestOutputChannel_ConcurrentProducers(t *testing.T) {
	const producers = 4
	const perProducer = 250
	c := NewOutputChannel()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				c.Send(record.Generate(p*perProducer + i))
			}
		}(p)
	}

	received := map[int64]bool{}
	lastPerProducer := map[int]int64{}
	drain := func() {
		for {
			r, ok := c.TryReceive()
			if !ok {
				return
			}
			assert.False(t, received[r.Offset], "duplicate offset %d", r.Offset)
			received[r.Offset] = true
			p := int(r.Offset) / perProducer
			if last, ok := lastPerProducer[p]; ok {
				assert.Greater(t, r.Offset, last, "producer %d out of order", p)
			}
			lastPerProducer[p] = r.Offset
		}
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			drain()
		}
	}
	drain()
	assert.Len(t, received, producers*perProducer)
}
