package datasource

import (
	"context"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// DataReader is a batch-oriented, optionally transactional source of records.
type DataReader interface {
	// Read returns the next batch. An empty batch with a nil error means nothing is available right now.
	Read(ctx context.Context) ([]*record.Record, error)
	// HasMore reports whether further Read calls may return data.
	HasMore(ctx context.Context) (bool, error)
	Commit(ctx context.Context) error
	Seek(ctx context.Context, offset int64) error
	SupportsTransactions() bool
	BeginTransaction(ctx context.Context) (bool, error)
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

// DataWriter receives the records emitted by the engine.
type DataWriter interface {
	Write(ctx context.Context, r *record.Record) error
	WriteBatch(ctx context.Context, rs []*record.Record) error
	Update(ctx context.Context, key string, r *record.Record) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	SupportsTransactions() bool
	BeginTransaction(ctx context.Context) (bool, error)
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}
