// Package testutil provides registry fakes and fixture builders for tests.
package testutil

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/zjrosen/invsources/internal/registry"
)

// CountingSource is a registry.KeySource that records how often Keys is called.
type CountingSource struct {
	mu    sync.RWMutex
	keys  []string
	calls atomic.Int64
}

var _ registry.KeySource = (*CountingSource)(nil)

// NewCountingSource returns a source yielding keys in the given order.
func NewCountingSource(keys ...string) *CountingSource {
	return &CountingSource{keys: slices.Clone(keys)}
}

// Keys returns a copy of the configured keys and counts the read.
func (s *CountingSource) Keys() []string {
	s.calls.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.keys)
}

// Calls returns how many times Keys has been called.
func (s *CountingSource) Calls() int64 {
	return s.calls.Load()
}

// SetKeys replaces the key set. Used to show that memoized results ignore
// registry changes after the first read.
func (s *CountingSource) SetKeys(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = slices.Clone(keys)
}

// BlockingSource blocks every Keys call until Release is called.
type BlockingSource struct {
	*CountingSource
	release chan struct{}
	once    sync.Once
	waiting atomic.Int64
}

// NewBlockingSource wraps a counting source whose reads wait for Release.
func NewBlockingSource(keys ...string) *BlockingSource {
	return &BlockingSource{
		CountingSource: NewCountingSource(keys...),
		release:        make(chan struct{}),
	}
}

func (s *BlockingSource) Keys() []string {
	s.waiting.Add(1)
	<-s.release
	return s.CountingSource.Keys()
}

// Waiting returns how many Keys calls have started, released or not.
func (s *BlockingSource) Waiting() int64 {
	return s.waiting.Load()
}

// Release unblocks all pending and future Keys calls.
func (s *BlockingSource) Release() {
	s.once.Do(func() { close(s.release) })
}
