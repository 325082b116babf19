package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubMetadataSource serves capture timestamps from an in-memory map and
// counts extraction calls, so tests can assert that incremental updates skip
// extraction entirely. Safe for concurrent use by the worker pool.
type StubMetadataSource struct {
	mu         sync.Mutex
	timestamps map[string]time.Time
	errs       map[string]error
	calls      int
}

// NewStubMetadataSource creates an empty stub.
func NewStubMetadataSource() *StubMetadataSource {
	return &StubMetadataSource{
		timestamps: make(map[string]time.Time),
		errs:       make(map[string]error),
	}
}

// SetTimestamp registers the capture timestamp returned for path.
func (s *StubMetadataSource) SetTimestamp(path string, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamps[path] = ts
}

// SetError makes extraction fail for path.
func (s *StubMetadataSource) SetError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[path] = err
}

// FailWith makes extraction fail for path with a generic reason.
func (s *StubMetadataSource) FailWith(path, reason string) {
	s.SetError(path, fmt.Errorf("%s", reason))
}

// Calls returns how many extractions have been performed.
func (s *StubMetadataSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ResetCalls zeroes the call counter.
func (s *StubMetadataSource) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
}

func (s *StubMetadataSource) ExtractCaptureTimestamp(_ context.Context, path string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	if ts, ok := s.timestamps[path]; ok {
		return &ts, nil
	}
	// Known file, no capture-time field.
	return nil, nil
}
