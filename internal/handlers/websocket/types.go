package websocket

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// client -> server
	MessageTypeChunkEnd MessageType = "chunk_end"
	MessageTypeGenerate MessageType = "generate"

	// server -> client
	MessageTypeSession      MessageType = "session"
	MessageTypePreprocessed MessageType = "preprocessed"
	MessageTypeAudio        MessageType = "audio"
	MessageTypeError        MessageType = "error"
)

// WSMessage represents the structure of server messages
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ControlMessage is a text frame sent by the client. Binary frames carry PCM.
type ControlMessage struct {
	Type       MessageType `json:"type"`
	ChunkIndex *int        `json:"chunkIndex"`
	IsFinal    bool        `json:"isFinal"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ChunkIndex *int   `json:"chunkIndex,omitempty"`
}

const (
	codeBadMessage    = "bad_message"
	codeBadFrame      = "bad_frame"
	codeChunkTooLarge = "chunk_too_large"
	codeEmptyChunk    = "empty_chunk"
	codeInvalid       = "invalid_request"
	codeNotFound      = "not_found"
	codeInternal      = "internal_error"
)
