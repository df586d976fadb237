package engine

import (
	"sync"

	"github.com/armadaproject/streambench/internal/streambench/record"
)

// OutputChannel is an unbounded FIFO of engine outputs. Any number of goroutines may Send;
// a single consumer drains it with TryReceive, which never blocks.
type OutputChannel struct {
	mu     sync.Mutex
	buffer []*record.Record
	head   int
	sent   int64
}

func NewOutputChannel() *OutputChannel {
	return &OutputChannel{}
}

func (c *OutputChannel) Send(r *record.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer = append(c.buffer, r)
	c.sent++
}

// TryReceive pops the oldest record, returning false when the channel is empty.
func (c *OutputChannel) TryReceive() (*record.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.head >= len(c.buffer) {
		return nil, false
	}
	r := c.buffer[c.head]
	c.buffer[c.head] = nil
	c.head++
	if c.head == len(c.buffer) {
		c.buffer = c.buffer[:0]
		c.head = 0
	}
	return r, true
}

// Len is the number of records waiting to be received.
func (c *OutputChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer) - c.head
}

// Sent is the total number of records ever sent.
func (c *OutputChannel) Sent() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}
