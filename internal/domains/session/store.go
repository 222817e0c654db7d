package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xpanvictor/emovox/internal/domains/emotion"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrChunkNotFound   = errors.New("chunk not found")
)

// Record is the pre-processed state of one chunk, kept until generation asks for it.
type Record struct {
	ChunkIndex     int                `msgpack:"chunk_index" json:"chunk_index"`
	Transcription  string             `msgpack:"transcription" json:"transcription"`
	SourceLanguage string             `msgpack:"source_language" json:"source_language"`
	TranslatedText string             `msgpack:"translated_text" json:"translated_text"`
	TargetLanguage string             `msgpack:"target_language" json:"target_language"`
	Emotion        emotion.Label      `msgpack:"emotion" json:"emotion"`
	Attributes     emotion.Attributes `msgpack:"attributes" json:"attributes"`
	IsFinal        bool               `msgpack:"is_final" json:"is_final"`
	CreatedAt      time.Time          `msgpack:"created_at" json:"created_at"`
}

// clone detaches the record from maps shared with the caller.
func (r Record) clone() Record {
	r.Attributes = r.Attributes.Clone()
	return r
}

// Store keeps chunk records per session. Put is an atomic per-key upsert: a second
// Put for the same (session, chunk) replaces the first. Sessions expire after a
// sliding TTL or on Close.
type Store interface {
	Put(ctx context.Context, sessionID string, rec Record) error
	Get(ctx context.Context, sessionID string, chunkIndex int) (Record, error)
	Close(ctx context.Context, sessionID string) error
}

func NewID() string {
	return uuid.NewString()
}
