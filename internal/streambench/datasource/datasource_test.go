package datasource

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

var (
	_ DataReader = &BoundedSource{}
	_ DataWriter = &CountingSink{}
)

func TestBoundedSource_Batching(t *testing.T) {
	tests := map[string]struct {
		recordCount   int
		batchSize     int
		expectedSizes []int
	}{
		"exact division":   {recordCount: 100, batchSize: 50, expectedSizes: []int{50, 50}},
		"short last batch": {recordCount: 7, batchSize: 3, expectedSizes: []int{3, 3, 1}},
		"one big batch":    {recordCount: 5, batchSize: 100, expectedSizes: []int{5}},
		"no records":       {recordCount: 0, batchSize: 10, expectedSizes: []int{}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			src, err := NewBoundedSource(tc.recordCount, tc.batchSize)
			require.NoError(t, err)
			assert.Equal(t, len(tc.expectedSizes), src.NumBatches())

			sizes := []int{}
			var offsets []int64
			for {
				more, err := src.HasMore(ctx)
				require.NoError(t, err)
				if !more {
					break
				}
				batch, err := src.Read(ctx)
				require.NoError(t, err)
				sizes = append(sizes, len(batch))
				for _, r := range batch {
					offsets = append(offsets, r.Offset)
				}
			}
			assert.Equal(t, tc.expectedSizes, sizes)
			for i, o := range offsets {
				assert.Equal(t, int64(i), o)
			}

			// Exhausted sources keep returning empty batches.
			batch, err := src.Read(ctx)
			require.NoError(t, err)
			assert.Empty(t, batch)
			more, err := src.HasMore(ctx)
			require.NoError(t, err)
			assert.False(t, more)
		})
	}
}

func TestBoundedSource_RecordsMatchGenerator(t *testing.T) {
	src, err := NewBoundedSource(10, 4)
	require.NoError(t, err)
	_, _ = src.Read(context.Background())
	batch, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.GenerateRange(4, 8), batch)
}

func TestBoundedSource_InvalidArgs(t *testing.T) {
	_, err := NewBoundedSource(10, 0)
	assert.Error(t, err)
	_, err = NewBoundedSource(-1, 10)
	assert.Error(t, err)
}

func TestBoundedSource_TransactionalNoOps(t *testing.T) {
	ctx := context.Background()
	src, err := NewBoundedSource(1, 1)
	require.NoError(t, err)

	assert.True(t, src.SupportsTransactions())
	ok, err := src.BeginTransaction(ctx)
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, src.CommitTransaction(ctx))
	assert.NoError(t, src.AbortTransaction(ctx))
	assert.NoError(t, src.Commit(ctx))
	assert.NoError(t, src.Seek(ctx, 42))

	more, _ := src.HasMore(ctx)
	assert.True(t, more, "seek must not move the cursor")
}

func TestCountingSink(t *testing.T) {
	ctx := context.Background()
	sink := NewCountingSink()

	require.NoError(t, sink.Write(ctx, record.Generate(0)))
	require.NoError(t, sink.WriteBatch(ctx, record.GenerateRange(1, 4)))
	require.NoError(t, sink.Update(ctx, "STOCK0001", record.Generate(1)))
	require.NoError(t, sink.Delete(ctx, "STOCK0001"))
	require.NoError(t, sink.Flush(ctx))
	require.NoError(t, sink.Commit(ctx))
	require.NoError(t, sink.Rollback(ctx))

	assert.Equal(t, int64(5), sink.RecordsWritten())
}

func TestCountingSink_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	sink := NewCountingSink()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = sink.Write(ctx, record.Generate(j))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), sink.RecordsWritten())
}
