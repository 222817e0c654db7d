package websocket

import (
	"sync"
	"time"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

// ConnectionManager tracks open chunk-capture connections and closes idle ones
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[string]*Session
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
}

// NewConnectionManager creates a manager that checks for idle connections every
// sweep and closes those inactive for longer than timeout.
func NewConnectionManager(logger *Logger.Logger, timeout, sweep time.Duration) *ConnectionManager {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	if sweep <= 0 {
		sweep = time.Minute
	}
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[string]*Session),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: timeout,
	}
	cm.startCleanupRoutine(sweep)
	return cm
}

// RegisterConnection registers a new session
func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if prev, ok := cm.sessions[session.SessionID]; ok && prev != session {
		cm.logger.Warnf("session %s reconnected, closing previous connection", session.SessionID)
		prev.Close()
	}
	cm.sessions[session.SessionID] = session
	cm.logger.Infof("registered ws session %s", session.SessionID)
}

// UnregisterConnection removes a session if it is still the registered one
func (cm *ConnectionManager) UnregisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if current, ok := cm.sessions[session.SessionID]; ok && current == session {
		delete(cm.sessions, session.SessionID)
	}
	if err := session.Close(); err != nil {
		cm.logger.Debugf("closing ws session %s: %v", session.SessionID, err)
	}
	cm.logger.Infof("unregistered ws session %s (connected for %v)", session.SessionID, time.Since(session.ConnectedAt).Round(time.Millisecond))
}

// GetSessionCount returns the number of active sessions
func (cm *ConnectionManager) GetSessionCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.sessions)
}

func (cm *ConnectionManager) startCleanupRoutine(every time.Duration) {
	cm.cleanupTicker = time.NewTicker(every)

	go func() {
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				cm.cleanupTicker.Stop()
				return
			}
		}
	}()
}

func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	expired := 0
	for id, session := range cm.sessions {
		if !session.IsExpired(cm.sessionTimeout) {
			continue
		}
		cm.logger.Infof("closing idle ws session %s", id)
		session.Close()
		delete(cm.sessions, id)
		expired++
	}
	if expired > 0 {
		cm.logger.Infof("closed %d idle ws sessions", expired)
	}
}

// Close shuts down the connection manager
func (cm *ConnectionManager) Close() error {
	cm.stopOnce.Do(func() { close(cm.stopCleanup) })

	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	for id, session := range cm.sessions {
		if err := session.Close(); err != nil {
			cm.logger.Errorf("error closing ws session %s: %v", id, err)
		}
	}
	cm.sessions = make(map[string]*Session)
	return nil
}

// SessionStats describes one open capture connection.
type SessionStats struct {
	SessionID      string    `json:"session_id"`
	ConnectedAt    time.Time `json:"connected_at"`
	LastActive     time.Time `json:"last_active"`
	BufferedBytes  int       `json:"buffered_bytes"`
	BufferCapacity int       `json:"buffer_capacity"`
}

type Stats struct {
	ActiveSessions int            `json:"active_sessions"`
	IdleTimeout    string         `json:"idle_timeout"`
	Sessions       []SessionStats `json:"sessions"`
}

// Snapshot reports every open connection and how full its frame buffer is.
func (cm *ConnectionManager) Snapshot() Stats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := Stats{
		ActiveSessions: len(cm.sessions),
		IdleTimeout:    cm.sessionTimeout.String(),
		Sessions:       make([]SessionStats, 0, len(cm.sessions)),
	}
	for _, session := range cm.sessions {
		stats.Sessions = append(stats.Sessions, SessionStats{
			SessionID:      session.SessionID,
			ConnectedAt:    session.ConnectedAt,
			LastActive:     session.LastActive(),
			BufferedBytes:  session.Buffer.Len(),
			BufferCapacity: session.Buffer.Capacity(),
		})
	}
	return stats
}
