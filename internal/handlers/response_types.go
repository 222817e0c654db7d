package handlers

import (
	"encoding/base64"

	"github.com/xpanvictor/emovox/internal/domains/emotion"
	"github.com/xpanvictor/emovox/internal/domains/pipeline"
)

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid audio file"`
	Details string `json:"details,omitempty" example:"audio exceeds size limit"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Session closed"`
}

// RootResponse describes the running service
type RootResponse struct {
	Name    string `json:"name" example:"Speech Translation API"`
	Version string `json:"version" example:"1.0.0"`
	Status  string `json:"status" example:"running"`
	Docs    string `json:"docs" example:"/swagger/index.html"`
}

// HealthResponse reports service and Redis state
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
	Redis  string `json:"redis" example:"connected"`
}

// ProcessAudioResponse is the full-clip workflow result
type ProcessAudioResponse struct {
	OriginalText      string                 `json:"original_text" example:"hola, ¿cómo estás?"`
	OriginalLanguage  string                 `json:"original_language" example:"Spanish"`
	TranslatedText    string                 `json:"translated_text" example:"hello, how are you?"`
	TargetLanguage    string                 `json:"target_language" example:"en"`
	Emotion           emotion.Label          `json:"emotion" example:"happy"`
	EmotionAttributes emotion.Attributes     `json:"emotion_attributes"`
	EmotionStatus     pipeline.OutcomeStatus `json:"emotion_status" example:"ok"`
	AudioBase64       string                 `json:"audio_base64"`
	AudioSizeBytes    int                    `json:"audio_size_bytes" example:"48213"`
	ProcessingTime    float64                `json:"processing_time" example:"2.41"`
	Stages            []pipeline.StageReport `json:"stages"`
}

// ProcessChunkResponse is the streaming chunk workflow result
type ProcessChunkResponse struct {
	ChunkIndex        int                    `json:"chunk_index" example:"0"`
	IsFinal           bool                   `json:"is_final" example:"false"`
	Transcription     string                 `json:"transcription"`
	SourceLanguage    string                 `json:"source_language" example:"es"`
	TranslatedText    string                 `json:"translated_text"`
	TargetLanguage    string                 `json:"target_language" example:"en"`
	Emotion           emotion.Label          `json:"emotion" example:"neutral"`
	EmotionAttributes emotion.Attributes     `json:"emotion_attributes"`
	AudioBase64       string                 `json:"audio_base64"`
	AudioSizeBytes    int                    `json:"audio_size_bytes"`
	ProcessingTime    float64                `json:"processing_time"`
	Stages            []pipeline.StageReport `json:"stages"`
}

// PreprocessChunkResponse is phase one of the two-phase protocol
type PreprocessChunkResponse struct {
	SessionID         string                 `json:"session_id" example:"3f8a0c52-4a43-4d3b-9a55-0a4c5a0e8f11"`
	ChunkIndex        int                    `json:"chunk_index" example:"0"`
	IsFinal           bool                   `json:"is_final"`
	Transcription     string                 `json:"transcription"`
	SourceLanguage    string                 `json:"source_language" example:"en"`
	TranslatedText    string                 `json:"translated_text"`
	TargetLanguage    string                 `json:"target_language" example:"es"`
	Emotion           emotion.Label          `json:"emotion" example:"sad"`
	EmotionAttributes emotion.Attributes     `json:"emotion_attributes"`
	EmotionStatus     pipeline.OutcomeStatus `json:"emotion_status" example:"ok"`
	ProcessingTime    float64                `json:"processing_time"`
	Stages            []pipeline.StageReport `json:"stages"`
}

// GenerateAudioRequest selects a pre-processed chunk
type GenerateAudioRequest struct {
	SessionID  string `json:"session_id" form:"session_id" binding:"required"`
	ChunkIndex *int   `json:"chunk_index" form:"chunk_index" binding:"required,min=0"`
}

// GenerateAudioResponse is phase two of the two-phase protocol
type GenerateAudioResponse struct {
	SessionID      string        `json:"session_id"`
	ChunkIndex     int           `json:"chunk_index"`
	Emotion        emotion.Label `json:"emotion" example:"sad"`
	TargetLanguage string        `json:"target_language" example:"es"`
	AudioBase64    string        `json:"audio_base64"`
	AudioSizeBytes int           `json:"audio_size_bytes"`
	ProcessingTime float64       `json:"processing_time"`
}

func encodeAudio(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func newProcessAudioResponse(r *pipeline.ClipResult) ProcessAudioResponse {
	return ProcessAudioResponse{
		OriginalText:      r.OriginalText,
		OriginalLanguage:  r.OriginalLanguage,
		TranslatedText:    r.TranslatedText,
		TargetLanguage:    r.TargetLanguage,
		Emotion:           r.Emotion.Label,
		EmotionAttributes: r.Emotion.Attributes,
		EmotionStatus:     r.EmotionStatus,
		AudioBase64:       encodeAudio(r.Audio),
		AudioSizeBytes:    len(r.Audio),
		ProcessingTime:    r.ProcessingTime,
		Stages:            r.Stages,
	}
}

func newProcessChunkResponse(r *pipeline.ChunkResult) ProcessChunkResponse {
	return ProcessChunkResponse{
		ChunkIndex:        r.ChunkIndex,
		IsFinal:           r.IsFinal,
		Transcription:     r.Transcription,
		SourceLanguage:    r.SourceLanguage,
		TranslatedText:    r.TranslatedText,
		TargetLanguage:    r.TargetLanguage,
		Emotion:           r.Emotion.Label,
		EmotionAttributes: r.Emotion.Attributes,
		AudioBase64:       encodeAudio(r.Audio),
		AudioSizeBytes:    len(r.Audio),
		ProcessingTime:    r.ProcessingTime,
		Stages:            r.Stages,
	}
}

func NewPreprocessChunkResponse(r *pipeline.PreprocessResult) PreprocessChunkResponse {
	return PreprocessChunkResponse{
		SessionID:         r.SessionID,
		ChunkIndex:        r.ChunkIndex,
		IsFinal:           r.IsFinal,
		Transcription:     r.Transcription,
		SourceLanguage:    r.SourceLanguage,
		TranslatedText:    r.TranslatedText,
		TargetLanguage:    r.TargetLanguage,
		Emotion:           r.Emotion.Label,
		EmotionAttributes: r.Emotion.Attributes,
		EmotionStatus:     r.EmotionStatus,
		ProcessingTime:    r.ProcessingTime,
		Stages:            r.Stages,
	}
}

func NewGenerateAudioResponse(r *pipeline.GenerateResult) GenerateAudioResponse {
	return GenerateAudioResponse{
		SessionID:      r.SessionID,
		ChunkIndex:     r.ChunkIndex,
		Emotion:        r.Emotion,
		TargetLanguage: r.TargetLanguage,
		AudioBase64:    encodeAudio(r.Audio),
		AudioSizeBytes: len(r.Audio),
		ProcessingTime: r.ProcessingTime,
	}
}
