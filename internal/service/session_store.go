package service

import (
	"context"
	"encoding/json"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore holds quiz sessions for their TTL. Implementations are
// last-write-wins; there is no cross-session sharing to coordinate.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.QuizSession, error)
	Save(ctx context.Context, session *model.QuizSession) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   *model.QuizSession
	expiresAt time.Time
}

// MemorySessionStore is the single-process default, with a janitor goroutine
// evicting expired sessions.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	store := &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			store.mu.Lock()
			for id, entry := range store.sessions {
				if now.After(entry.expiresAt) {
					delete(store.sessions, id)
				}
			}
			store.mu.Unlock()
		}
	}()

	return store
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*model.QuizSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, util.ErrSessionNotFound
	}

	// hand out a deep copy so callers never mutate the stored session in
	// place, matching the Redis store's serialization boundary
	return cloneSession(entry.session)
}

func (s *MemorySessionStore) Save(ctx context.Context, session *model.QuizSession) error {
	cloned, err := cloneSession(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.ID] = memoryEntry{
		session:   cloned,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func cloneSession(session *model.QuizSession) (*model.QuizSession, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	var cloned model.QuizSession
	if err := json.Unmarshal(data, &cloned); err != nil {
		return nil, err
	}
	return &cloned, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// RedisSessionStore keeps sessions as JSON values with a TTL, for
// deployments running more than one instance.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return "quiz:session:" + id
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.QuizSession, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(session.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}
