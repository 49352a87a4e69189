// Package cache provides a keyed, disk-backed store for remote metadata with in-process request de-duplication.
package cache

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/tubular-cli/tubular/filesystem"
	"golang.org/x/sync/singleflight"
)

type entries[T any] struct {
	Items map[string]T `json:"items"`
}

// Store keeps values of one kind in a single JSON file.
// The whole file expires after the configured lifetime.
type Store[T any] struct {
	mu       sync.RWMutex
	internal *gache.Cache[*entries[T]]
	group    singleflight.Group
}

// New returns a store persisted at path. A zero lifetime never expires.
func New[T any](path string, lifetime time.Duration) *Store[T] {
	return &Store[T]{
		internal: gache.New[*entries[T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Get returns the value stored under key, if any and not expired.
func (s *Store[T]) Get(key string) mo.Option[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, expired, err := s.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if v, ok := data.Items[key]; ok {
		return mo.Some(v)
	}
	return mo.None[T]()
}

// Set stores value under key.
func (s *Store[T]) Set(key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, expired, err := s.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Items == nil {
		data = &entries[T]{Items: make(map[string]T)}
	}
	data.Items[key] = value
	return s.internal.Set(data)
}

// Delete removes the value stored under key.
func (s *Store[T]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, expired, err := s.internal.Get()
	if err != nil {
		return err
	}
	if expired || data == nil {
		return nil
	}

	delete(data.Items, key)
	return s.internal.Set(data)
}

// Fetch returns the cached value for key or calls fetch once for all concurrent callers and stores the result.
// A failure to persist the result is not reported; the fetched value is still returned.
//
// The shared fetch is not cancelled with the caller that started it: each caller stops
// waiting when its own ctx ends and the others still get the result.
func (s *Store[T]) Fetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.Get(key).Get(); ok {
		return v, nil
	}

	shared := context.WithoutCancel(ctx)
	results := s.group.DoChan(key, func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return value, err
		}
		_ = s.Set(key, value)
		return value, nil
	})

	select {
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// CollectGarbage removes store files under dir that have not been written for longer than lifetime.
// A zero lifetime keeps everything.
func CollectGarbage(dir string, lifetime time.Duration) error {
	if lifetime <= 0 {
		return nil
	}

	fs := filesystem.API()
	if exists, err := fs.DirExists(dir); err != nil || !exists {
		return err
	}

	cutoff := time.Now().Add(-lifetime)
	return fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if info.ModTime().Before(cutoff) {
			return fs.Remove(path)
		}
		return nil
	})
}
