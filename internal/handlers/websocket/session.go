package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xpanvictor/emovox/pkg/io/audio/audioring"
)

// Session is one chunk-capture connection. All of its chunks are pre-processed
// under SessionID, so generate requests can refer to them by index.
type Session struct {
	SessionID string
	Conn      *websocket.Conn
	Buffer    audioring.Buffer

	ConnectedAt time.Time
	lastActive  time.Time
	IsActive    bool
	mutex       sync.RWMutex
	// gorilla allows one concurrent writer
	writeMu sync.Mutex
}

// NewSession creates a new WebSocket session
func NewSession(sessionID string, conn *websocket.Conn, bufferSize int) *Session {
	now := time.Now()
	return &Session{
		SessionID:   sessionID,
		Conn:        conn,
		Buffer:      audioring.New(bufferSize),
		ConnectedAt: now,
		lastActive:  now,
		IsActive:    true,
	}
}

// SendWebSocketMessage sends a message to the WebSocket client
func (s *Session) SendWebSocketMessage(msgType MessageType, data interface{}) error {
	if !s.IsAlive() {
		return fmt.Errorf("session not active")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.Conn.WriteJSON(WSMessage{
		Type:      msgType,
		Data:      data,
		SessionID: s.SessionID,
		Timestamp: time.Now(),
	})
}

// SendError sends an error message to the client
func (s *Session) SendError(code, message string, chunkIndex *int) error {
	return s.SendWebSocketMessage(MessageTypeError, ErrorMessage{
		Code:       code,
		Message:    message,
		ChunkIndex: chunkIndex,
	})
}

func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) IsAlive() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.IsActive
}

// IsExpired checks if the session has expired based on inactivity
func (s *Session) IsExpired(timeout time.Duration) bool {
	return time.Since(s.LastActive()) > timeout
}

// Close marks the session inactive, drops buffered audio and closes the socket.
func (s *Session) Close() error {
	s.mutex.Lock()
	if !s.IsActive {
		s.mutex.Unlock()
		return nil
	}
	s.IsActive = false
	s.mutex.Unlock()

	s.Buffer.Reset()
	return s.Conn.Close()
}
