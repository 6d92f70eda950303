package blobstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Op identifies a Store operation for fault injection.
type Op string

// Store operations that can be targeted by a Fault.
const (
	OpExists  Op = "exists"
	OpReadAll Op = "read_all"
	OpPut     Op = "put"
	OpDelete  Op = "delete"
)

// Fault defines a failure to inject for matching operations.
type Fault struct {
	Err error // Error to return. Defaults to an injected fault error.
}

// FaultStore is a Store wrapper that can inject errors, used to exercise
// failure paths in tests.
type FaultStore struct {
	inner Store

	mu    sync.Mutex
	rules map[Op]map[string]Fault // op -> name pattern -> fault
	calls map[Op]int
}

// NewFaultStore creates a new FaultStore wrapping the provided store.
func NewFaultStore(inner Store) *FaultStore {
	return &FaultStore{
		inner: inner,
		rules: make(map[Op]map[string]Fault),
		calls: make(map[Op]int),
	}
}

// AddRule injects a fault for the given operation on blob names containing pattern.
// An empty pattern matches every name.
func (f *FaultStore) AddRule(op Op, pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rules[op] == nil {
		f.rules[op] = make(map[string]Fault)
	}
	f.rules[op][pattern] = fault
}

// RemoveRules clears all rules for the given operation.
func (f *FaultStore) RemoveRules(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rules, op)
}

// Calls returns how many times the given operation reached this store.
func (f *FaultStore) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultStore) fault(op Op, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	for pattern, fault := range f.rules[op] {
		if pattern == "" || strings.Contains(name, pattern) {
			if fault.Err != nil {
				return fault.Err
			}
			return fmt.Errorf("injected fault error: %s %s", op, name)
		}
	}
	return nil
}

// URI returns the wrapped store's location identifier.
func (f *FaultStore) URI() string {
	return f.inner.URI()
}

// Exists reports whether the named blob exists.
func (f *FaultStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := f.fault(OpExists, name); err != nil {
		return false, err
	}
	return f.inner.Exists(ctx, name)
}

// ReadAll reads the full content of the named blob.
func (f *FaultStore) ReadAll(ctx context.Context, name string) ([]byte, error) {
	if err := f.fault(OpReadAll, name); err != nil {
		return nil, err
	}
	return f.inner.ReadAll(ctx, name)
}

// Put writes a blob.
func (f *FaultStore) Put(ctx context.Context, name string, data []byte) error {
	if err := f.fault(OpPut, name); err != nil {
		return err
	}
	return f.inner.Put(ctx, name, data)
}

// Delete removes a blob.
func (f *FaultStore) Delete(ctx context.Context, name string) error {
	if err := f.fault(OpDelete, name); err != nil {
		return err
	}
	return f.inner.Delete(ctx, name)
}
