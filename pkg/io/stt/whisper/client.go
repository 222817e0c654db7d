package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

const provider = "whisper"

// asrResponse is what the whisper-asr-webservice returns for output=json
type asrResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// WhisperClient handles communication with a self-hosted Whisper ASR service
type WhisperClient struct {
	baseURL    string
	pool       *transport.Pool
	retry      transport.RetryPolicy
	normalizer audio.Normalizer
	logger     *Logger.Logger
}

func NewWhisperClient(baseURL string, pool *transport.Pool, retry transport.RetryPolicy, normalizer audio.Normalizer, logger *Logger.Logger) *WhisperClient {
	if normalizer == nil {
		normalizer = audio.Passthrough{}
	}
	return &WhisperClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pool:       pool,
		retry:      retry,
		normalizer: normalizer,
		logger:     logger.Named(provider),
	}
}

func multipartBody(clip audio.Blob) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", clip.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

// Transcribe leaves language unset so the service detects it.
func (w *WhisperClient) Transcribe(ctx context.Context, clip audio.Blob) (stt.Result, error) {
	clip, err := w.normalizer.Normalize(ctx, clip)
	if err != nil {
		return stt.Result{}, err
	}
	if clip.Filename == "" {
		clip.Filename = "audio.wav"
	}

	requestURL := w.baseURL + "/asr?encode=true&task=transcribe&output=json"
	var responseBody []byte
	err = transport.Retry(ctx, w.retry, w.pool, w.logger, "whisper transcribe", func() error {
		body, contentType, err := multipartBody(clip)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		responseBody, _, err = w.pool.Do(provider, req)
		return err
	})
	if err != nil {
		return stt.Result{}, err
	}

	var transcription asrResponse
	if err := json.Unmarshal(responseBody, &transcription); err != nil {
		// some deployments answer output=json with plain text
		text := strings.TrimSpace(string(responseBody))
		w.logger.Warnf("whisper answered non-JSON, treating as plain text (%d chars)", len(text))
		transcription = asrResponse{Text: text}
	}

	code := stt.NormalizeCode(transcription.Language)
	w.logger.Debugf("whisper transcription: %s (language: %s)", transcription.Text, code)
	return stt.Result{
		Text:         strings.TrimSpace(transcription.Text),
		Language:     stt.LanguageName(code),
		LanguageCode: code,
	}, nil
}
