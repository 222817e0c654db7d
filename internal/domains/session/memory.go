package session

import (
	"context"
	"sync"
	"time"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

type memSession struct {
	chunks  map[int]Record
	expires time.Time
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memSession
	ttl      time.Duration
	now      func() time.Time
	logger   *Logger.Logger
}

func NewMemoryStore(ttl time.Duration, logger *Logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memSession),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.Named("sessions"),
	}
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.live(sessionID)
	if s == nil {
		s = &memSession{chunks: make(map[int]Record)}
		m.sessions[sessionID] = s
	}
	if _, exists := s.chunks[rec.ChunkIndex]; exists {
		m.logger.Infof("session %s: chunk %d pre-processed again, replacing", sessionID, rec.ChunkIndex)
	}
	s.chunks[rec.ChunkIndex] = rec.clone()
	s.expires = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string, chunkIndex int) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.live(sessionID)
	if s == nil {
		return Record{}, ErrSessionNotFound
	}
	rec, ok := s.chunks[chunkIndex]
	if !ok {
		return Record{}, ErrChunkNotFound
	}
	s.expires = m.now().Add(m.ttl)
	return rec.clone(), nil
}

func (m *MemoryStore) Close(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live(sessionID) == nil {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

// live returns the session if it exists and has not expired. Caller holds mu.
func (m *MemoryStore) live(sessionID string) *memSession {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	if m.ttl > 0 && m.now().After(s.expires) {
		delete(m.sessions, sessionID)
		return nil
	}
	return s
}

// Sweep drops every expired session and reports how many went.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl <= 0 {
		return 0
	}
	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if now.After(s.expires) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps on every tick until ctx ends.
func (m *MemoryStore) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debugf("swept %d expired sessions", n)
			}
		}
	}
}
