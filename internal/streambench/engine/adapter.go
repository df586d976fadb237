package engine

import (
	"context"
	"sync"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// Adapter executes a query against one input record. Derived records are pushed onto the
// OutputChannel the adapter was built with, zero or more per call, in emission order.
type Adapter interface {
	Execute(ctx context.Context, query Query, r *record.Record) error
}

// AdapterFunc lets an ordinary function act as an Adapter.
type AdapterFunc func(ctx context.Context, query Query, r *record.Record) error

func (f AdapterFunc) Execute(ctx context.Context, query Query, r *record.Record) error {
	return f(ctx, query, r)
}

// Serialized allows an Adapter that is not safe for concurrent use to be shared.
// Every call holds a single mutex, which caps throughput at one record at a time
// regardless of how many callers there are.
type Serialized struct {
	mu    sync.Mutex
	inner Adapter
}

func NewSerialized(inner Adapter) *Serialized {
	return &Serialized{inner: inner}
}

func (s *Serialized) Execute(ctx context.Context, query Query, r *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Execute(ctx, query, r)
}
