package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrQuotaExceeded simulates a full or disabled local store.
var ErrQuotaExceeded = errors.New("quota exceeded")

// FlakySlot is an in-memory slot whose reads and writes can be made to fail.
// It lets tests simulate disabled storage, quota errors, and corrupt blobs.
type FlakySlot struct {
	mu        sync.Mutex
	values    map[string]string
	FailGet   bool
	FailSet   bool
	SetCalls  int
	LastValue string
}

func NewFlakySlot() *FlakySlot {
	return &FlakySlot{values: make(map[string]string)}
}

// Seed writes a raw value directly, bypassing failure injection.
func (f *FlakySlot) Seed(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Raw returns the stored value without failure injection.
func (f *FlakySlot) Raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FlakySlot) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGet {
		return "", ErrQuotaExceeded
	}
	v, ok := f.values[key]
	if !ok {
		return "", errNotFound
	}
	return v, nil
}

func (f *FlakySlot) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetCalls++
	if f.FailSet {
		return ErrQuotaExceeded
	}
	f.values[key] = value
	f.LastValue = value
	return nil
}

var errNotFound = errors.New("slot not found")
