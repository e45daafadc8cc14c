package repofake

import (
	"context"
	"sync"

	"github.com/gongxings/ai-creator/storage"
)

var _ storage.Repo = (*FakeRepo)(nil)

// FakeRepo is an in-memory storage.Repo. It also backs the "memory" storage
// backend for processes that should not persist sessions.
type FakeRepo struct {
	values map[string]string
	lock   sync.RWMutex

	// FailWith, when set, is returned by every operation
	FailWith error

	sets    int
	removes int
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		values: make(map[string]string),
	}
}

func (r *FakeRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailWith != nil {
		return "", false, r.FailWith
	}
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *FakeRepo) Set(_ context.Context, key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	if key == "" {
		return storage.ErrEmptyKey
	}
	r.values[key] = value
	r.sets++
	return nil
}

func (r *FakeRepo) Remove(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	if key == "" {
		return storage.ErrEmptyKey
	}
	delete(r.values, key)
	r.removes++
	return nil
}

// Len returns the number of stored keys
func (r *FakeRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.values)
}

// Writes returns the number of Set and Remove calls so far
func (r *FakeRepo) Writes() (sets, removes int) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.sets, r.removes
}
