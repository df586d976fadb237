package datasource

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// BoundedSource serves a fixed, pre-generated set of records in batches.
// All batches are materialised up front so that generation cost is excluded from measurement.
type BoundedSource struct {
	batches [][]*record.Record
	cursor  int
	mu      sync.Mutex
}

// NewBoundedSource generates recordCount records and splits them into batches of batchSize.
// The last batch is short when batchSize does not divide recordCount.
func NewBoundedSource(recordCount, batchSize int) (*BoundedSource, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	if recordCount < 0 {
		return nil, errors.Errorf("record count must be non-negative, got %d", recordCount)
	}
	numBatches := (recordCount + batchSize - 1) / batchSize
	batches := make([][]*record.Record, 0, numBatches)
	for start := 0; start < recordCount; start += batchSize {
		batches = append(batches, record.GenerateRange(start, min(start+batchSize, recordCount)))
	}
	return &BoundedSource{batches: batches}, nil
}

func (s *BoundedSource) Read(_ context.Context) ([]*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.batches) {
		return []*record.Record{}, nil
	}
	batch := s.batches[s.cursor]
	s.cursor++
	return batch, nil
}

func (s *BoundedSource) HasMore(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.batches), nil
}

// NumBatches is the number of batches the source was created with.
func (s *BoundedSource) NumBatches() int {
	return len(s.batches)
}

// Seek is accepted but ignored: the source is replayed only from the start.
func (s *BoundedSource) Seek(_ context.Context, _ int64) error {
	return nil
}

func (s *BoundedSource) Commit(_ context.Context) error {
	return nil
}

func (s *BoundedSource) SupportsTransactions() bool {
	return true
}

func (s *BoundedSource) BeginTransaction(_ context.Context) (bool, error) {
	return true, nil
}

func (s *BoundedSource) CommitTransaction(_ context.Context) error {
	return nil
}

func (s *BoundedSource) AbortTransaction(_ context.Context) error {
	return nil
}
