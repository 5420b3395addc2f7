// Package storetest provides a hand-written fake store.AsyncStore for
// fault-injection tests: callers can make any key fail, or any call
// error out, without standing up a real backing store.
package storetest

import (
	"context"
	"sync"

	"github.com/erigontech/polyepoxide/key"
	"github.com/erigontech/polyepoxide/store"
)

// Fake is an AsyncStore backed by an in-memory map, with injectable
// failures keyed by content key.
type Fake struct {
	mu         sync.Mutex
	data       map[key.Key][]byte
	failKeys   map[key.Key]error
	failCount  map[key.Key]int
	failAll    error
	getCalls   int
	putCalls   int
	hasCalls   int
	store.SequentialBatcher
}

// New returns an empty Fake.
func New() *Fake {
	f := &Fake{
		data:      make(map[key.Key][]byte),
		failKeys:  make(map[key.Key]error),
		failCount: make(map[key.Key]int),
	}
	f.SequentialBatcher = store.SequentialBatcher{Single: f}
	return f
}

// FailKey makes every call touching k return err.
func (f *Fake) FailKey(k key.Key, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[k] = err
}

// FailKeyTimes makes the next n calls touching k return err, then lets
// calls after that succeed - for exercising a caller's retry-then-succeed
// path rather than only its give-up-on-permanent-failure path.
func (f *Fake) FailKeyTimes(k key.Key, err error, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKeys[k] = err
	f.failCount[k] = n
}

// FailAll makes every call return err, regardless of key.
func (f *Fake) FailAll(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = err
}

// ClearFailures removes all injected failures.
func (f *Fake) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = nil
	f.failKeys = make(map[key.Key]error)
	f.failCount = make(map[key.Key]int)
}

// Counts returns the number of Get/Put/Has calls observed so far.
func (f *Fake) Counts() (get, put, has int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.putCalls, f.hasCalls
}

func (f *Fake) failFor(k key.Key) error {
	if f.failAll != nil {
		return f.failAll
	}
	if n, limited := f.failCount[k]; limited {
		if n <= 0 {
			return nil
		}
		f.failCount[k] = n - 1
		return f.failKeys[k]
	}
	return f.failKeys[k]
}

func (f *Fake) Get(_ context.Context, k key.Key) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if err := f.failFor(k); err != nil {
		return nil, false, err
	}
	v, ok := f.data[k]
	return v, ok, nil
}

func (f *Fake) Put(_ context.Context, k key.Key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if err := f.failFor(k); err != nil {
		return err
	}
	f.data[k] = value
	return nil
}

func (f *Fake) Has(_ context.Context, k key.Key) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hasCalls++
	if err := f.failFor(k); err != nil {
		return false, err
	}
	_, ok := f.data[k]
	return ok, nil
}
