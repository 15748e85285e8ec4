package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/config"
	"resume-builder/pkg/utils"
)

// Common errors
var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is the key-value backend behind a Session
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// MemoryStore implements Store in process. A positive quota caps the bytes
// stored per session, the way browser storage is capped per user. A positive
// ttl expires entries that have not been written for that long.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]memoryItem
	usage     map[string]int
	quota     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	closed    bool
}

type memoryItem struct {
	value   []byte
	expires time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// NewMemoryStore creates a new in-memory store without expiry. quota <= 0
// means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return NewMemoryStoreWithTTL(quota, 0)
}

// NewMemoryStoreWithTTL creates an in-memory store whose entries expire ttl
// after their last write
func NewMemoryStoreWithTTL(quota int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		usage: make(map[string]int),
		quota: quota,
		ttl:   ttl,
		now:   time.Now,
	}
}

// quotaScope groups session:<id>:<name> keys by session; other keys are
// their own scope
func quotaScope(key string) string {
	if strings.HasPrefix(key, "session:") {
		if i := strings.LastIndexByte(key, ':'); i > len("session:") {
			return key[:i]
		}
	}
	return key
}

// Get returns a copy of the value stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[key]
	if !exists || item.expired(s.now()) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores value under key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("store is closed")
	}

	now := s.now()
	s.sweep(now)

	scope := quotaScope(key)
	used := s.usage[scope] - len(s.items[key].value) + len(value)
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, s.quota)
	}

	item := memoryItem{value: make([]byte, len(value))}
	copy(item.value, value)
	if s.ttl > 0 {
		item.expires = now.Add(s.ttl)
	}
	s.items[key] = item
	s.usage[scope] = used
	return nil
}

// Del removes keys; missing keys are ignored
func (s *MemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.remove(key)
	}
	return nil
}

// Len returns the number of live entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, item := range s.items {
		if !item.expired(now) {
			n++
		}
	}
	return n
}

// remove drops key and its usage; caller holds mu
func (s *MemoryStore) remove(key string) {
	item, ok := s.items[key]
	if !ok {
		return
	}
	scope := quotaScope(key)
	if left := s.usage[scope] - len(item.value); left > 0 {
		s.usage[scope] = left
	} else {
		delete(s.usage, scope)
	}
	delete(s.items, key)
}

// sweep drops expired entries at most once per minute; caller holds mu
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < time.Minute {
		return
	}
	s.lastSweep = now
	for key, item := range s.items {
		if item.expired(now) {
			s.remove(key)
		}
	}
}

// Ping reports whether the store accepts writes
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errors.New("store is closed")
	}
	return nil
}

// Close makes every later write fail
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// RedisStore adapts the shared Redis client to Store
type RedisStore struct {
	client *utils.RedisClient
}

// NewRedisStore wraps client
func NewRedisStore(client *utils.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value under key, mapping a missing key to ErrNotFound
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, utils.ErrRedisKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set stores value under key
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value)
}

// Del removes keys
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...)
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases the Redis connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NewStore builds the backend selected in configuration
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case "", "memory":
		return NewMemoryStoreWithTTL(cfg.Session.QuotaBytes, cfg.Session.TTL), nil
	case "redis":
		return NewRedisStore(utils.NewRedisClient(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}
}
