package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

func TestSerialized_ExcludesConcurrentCalls(t *testing.T) {
	var active, maxActive atomic.Int32
	inner := AdapterFunc(func(ctx context.Context, query Query, r *record.Record) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return nil
	})
	s := NewSerialized(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Execute(context.Background(), SimpleSelect(), record.Generate(i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestSerialized_PropagatesErrors(t *testing.T) {
	s := NewSerialized(AdapterFunc(func(ctx context.Context, query Query, r *record.Record) error {
		return assert.AnError
	}))
	assert.ErrorIs(t, s.Execute(context.Background(), SimpleSelect(), record.Generate(0)), assert.AnError)
}
