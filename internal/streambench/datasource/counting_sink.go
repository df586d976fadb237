package datasource

import (
	"context"
	"sync/atomic"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// CountingSink discards what it is given and only counts it.
type CountingSink struct {
	written atomic.Int64
}

func NewCountingSink() *CountingSink {
	return &CountingSink{}
}

// RecordsWritten is informational. Throughput is computed from the orchestrator's own tally.
func (s *CountingSink) RecordsWritten() int64 {
	return s.written.Load()
}

func (s *CountingSink) Write(_ context.Context, _ *record.Record) error {
	s.written.Add(1)
	return nil
}

func (s *CountingSink) WriteBatch(_ context.Context, rs []*record.Record) error {
	s.written.Add(int64(len(rs)))
	return nil
}

func (s *CountingSink) Update(_ context.Context, _ string, _ *record.Record) error {
	s.written.Add(1)
	return nil
}

func (s *CountingSink) Delete(_ context.Context, _ string) error {
	return nil
}

func (s *CountingSink) Flush(_ context.Context) error {
	return nil
}

func (s *CountingSink) Commit(_ context.Context) error {
	return nil
}

func (s *CountingSink) Rollback(_ context.Context) error {
	return nil
}

func (s *CountingSink) SupportsTransactions() bool {
	return true
}

func (s *CountingSink) BeginTransaction(_ context.Context) (bool, error) {
	return true, nil
}

func (s *CountingSink) CommitTransaction(_ context.Context) error {
	return nil
}

func (s *CountingSink) AbortTransaction(_ context.Context) error {
	return nil
}
