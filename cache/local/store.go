package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds Store settings.
type Config struct {
	GCInterval time.Duration
}

type entry struct {
	data     string
	expireAt time.Time // zero = no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// Store is an in-process KV and list store. Lists are kept newest first,
// matching Redis LPUSH order.
type Store struct {
	mu    sync.Mutex
	kv    map[string]entry
	lists map[string][]string

	stopGC   chan struct{}
	stopOnce sync.Once
}

// NewStore creates a Store and starts its expiry sweeper.
func NewStore(cfg Config) *Store {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	s := &Store{
		kv:     make(map[string]entry),
		lists:  make(map[string][]string),
		stopGC: make(chan struct{}),
	}
	go s.runGC(interval)
	return s
}

// Close stops the sweeper. It is safe to call more than once.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stopGC) })
	return nil
}

func (s *Store) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.mu.Lock()
			for k, e := range s.kv {
				if e.expired(now) {
					delete(s.kv, k)
				}
			}
			s.mu.Unlock()
		case <-s.stopGC:
			return
		}
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.kv[key]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(time.Now()) {
		delete(s.kv, key)
		return "", ErrNotFound
	}
	return e.data, nil
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.kv[key] = e
	s.mu.Unlock()
	return nil
}

// Del removes keys of either kind.
func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.kv, k)
		delete(s.lists, k)
	}
	return nil
}

// LPush prepends values in order, so the last value ends up at index 0.
func (s *Store) LPush(_ context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.lists[key]
	l := make([]string, 0, len(old)+len(values))
	for i := len(values) - 1; i >= 0; i-- {
		l = append(l, values[i])
	}
	s.lists[key] = append(l, old...)
	return nil
}

func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.lists[key]
	lo, hi, ok := span(int64(len(l)), start, stop)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, hi-lo+1)
	copy(out, l[lo:hi+1])
	return out, nil
}

func (s *Store) LTrim(_ context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.lists[key]
	lo, hi, ok := span(int64(len(l)), start, stop)
	if !ok {
		delete(s.lists, key)
		return nil
	}
	s.lists[key] = append([]string(nil), l[lo:hi+1]...)
	return nil
}

// span resolves Redis-style inclusive indices, negatives counting from the
// end, against a list of length n.
func span(n, start, stop int64) (int64, int64, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return 0, 0, false
	}
	return start, stop, true
}
