package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xpanvictor/emovox/internal/domains/pipeline"
	"github.com/xpanvictor/emovox/internal/domains/session"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

const audioField = "audio"

// ReadAudioForm pulls the uploaded clip out of the multipart form. At most
// limit+1 bytes are read so oversized uploads still reach the validator.
func ReadAudioForm(c *gin.Context, limit int64) (audio.Blob, error) {
	fh, err := c.FormFile(audioField)
	if err != nil {
		return audio.Blob{}, fmt.Errorf("%w: missing %q file field", pipeline.ErrInvalidAudio, audioField)
	}
	f, err := fh.Open()
	if err != nil {
		return audio.Blob{}, fmt.Errorf("%w: %v", pipeline.ErrInvalidAudio, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return audio.Blob{}, fmt.Errorf("%w: %v", pipeline.ErrInvalidAudio, err)
	}
	return audio.Blob{
		Data:     data,
		MIMEType: fh.Header.Get("Content-Type"),
		Filename: fh.Filename,
	}, nil
}

func formInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func formBool(c *gin.Context, key string) (bool, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return b, nil
}

// StatusFor maps pipeline and session errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrChunkNotFound):
		return http.StatusNotFound
	case pipeline.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var se *pipeline.StageError
	switch {
	case errors.As(err, &se) && status == http.StatusInternalServerError:
		resp.Error = se.Error()
		resp.Details = string(se.Stage)
	case status == http.StatusNotFound:
		resp.Error = "not found"
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}
