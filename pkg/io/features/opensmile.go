package features

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

const provider = "opensmile"

var ErrEmptyFeatures = errors.New("extractor returned no features")

// OpenSmile posts a clip to an eGeMAPSv02 sidecar and reads back the functionals.
// The sidecar answers either {"features": {...}} or a flat name -> value object.
type OpenSmile struct {
	url        string
	pool       *transport.Pool
	normalizer audio.Normalizer
	logger     *Logger.Logger
}

func NewOpenSmile(url string, pool *transport.Pool, normalizer audio.Normalizer, logger *Logger.Logger) *OpenSmile {
	if normalizer == nil {
		normalizer = audio.Passthrough{}
	}
	return &OpenSmile{
		url:        strings.TrimRight(url, "/") + "/functionals",
		pool:       pool,
		normalizer: normalizer,
		logger:     logger.Named(provider),
	}
}

func (o *OpenSmile) Functionals(ctx context.Context, clip audio.Blob) (map[string]float64, error) {
	clip, err := o.normalizer.Normalize(ctx, clip)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, err
	}
	if err := writer.WriteField("feature_set", "eGeMAPSv02"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, _, err := o.pool.Do(provider, req)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Features map[string]float64 `json:"features"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Features) > 0 {
		return wrapped.Features, nil
	}
	flat := map[string]float64{}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode functionals: %w", err)
	}
	if len(flat) == 0 {
		return nil, ErrEmptyFeatures
	}
	o.logger.Debugf("extracted %d functionals", len(flat))
	return flat, nil
}
