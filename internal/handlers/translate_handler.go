package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpanvictor/emovox/internal/domains/pipeline"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

// Pipeline is the set of workflows the HTTP surface exposes.
type Pipeline interface {
	ProcessClip(ctx context.Context, clip audio.Blob) (*pipeline.ClipResult, error)
	ProcessChunk(ctx context.Context, in pipeline.ChunkInput) (*pipeline.ChunkResult, error)
	PreprocessChunk(ctx context.Context, in pipeline.PreprocessInput) (*pipeline.PreprocessResult, error)
	GenerateAudio(ctx context.Context, sessionID string, chunkIndex int) (*pipeline.GenerateResult, error)
	CloseSession(ctx context.Context, sessionID string) error
}

// TranslateHandler handles the speech translation endpoints
type TranslateHandler struct {
	pipeline      Pipeline
	maxAudioBytes int64
	maxChunkBytes int64
	logger        *Logger.Logger
}

// NewTranslateHandler creates a new translation handler
func NewTranslateHandler(p Pipeline, maxAudioBytes, maxChunkBytes int64, logger *Logger.Logger) *TranslateHandler {
	return &TranslateHandler{
		pipeline:      p,
		maxAudioBytes: maxAudioBytes,
		maxChunkBytes: maxChunkBytes,
		logger:        logger.Named("http"),
	}
}

// RegisterRoutes registers the /api routes
func (h *TranslateHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.POST("/process-audio", h.ProcessAudio)
		api.POST("/process-chunk", h.ProcessChunk)
		api.POST("/preprocess-chunk", h.PreprocessChunk)
		api.POST("/generate-audio", h.GenerateAudio)
		api.DELETE("/sessions/:id", h.CloseSession)
	}
}

// ProcessAudio handles the full-clip workflow
// @Summary Translate a spoken clip
// @Description Transcribe, detect emotion, translate between English and Spanish and synthesize the translation
// @Tags Translation
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio clip (wav, mp3, m4a, webm, ogg)"
// @Success 200 {object} ProcessAudioResponse "Clip processed"
// @Failure 400 {object} ErrorResponse "Invalid audio"
// @Failure 500 {object} ErrorResponse "Pipeline stage failure"
// @Router /api/process-audio [post]
func (h *TranslateHandler) ProcessAudio(c *gin.Context) {
	clip, err := ReadAudioForm(c, h.maxAudioBytes)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.pipeline.ProcessClip(c.Request.Context(), clip)
	if err != nil {
		h.logger.Errorf("process-audio %s: %v", clip.Filename, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProcessAudioResponse(res))
}

// ProcessChunk handles one streamed chunk end to end
// @Summary Translate one chunk of a long recording
// @Description Runs the whole pipeline on a chunk without storing anything. Empty speech yields an empty result.
// @Tags Translation
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio chunk"
// @Param chunk_index formData int false "Chunk position, >= 0"
// @Param is_final formData bool false "Last chunk of the recording"
// @Success 200 {object} ProcessChunkResponse "Chunk processed"
// @Failure 400 {object} ErrorResponse "Invalid, oversized or unsupported-language chunk"
// @Failure 500 {object} ErrorResponse "Pipeline stage failure"
// @Router /api/process-chunk [post]
func (h *TranslateHandler) ProcessChunk(c *gin.Context) {
	in, ok := h.bindChunk(c, h.maxChunkBytes)
	if !ok {
		return
	}

	res, err := h.pipeline.ProcessChunk(c.Request.Context(), pipeline.ChunkInput{
		Clip:       in.clip,
		ChunkIndex: in.index,
		IsFinal:    in.final,
	})
	if err != nil {
		h.logger.Errorf("process-chunk %d: %v", in.index, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProcessChunkResponse(res))
}

// PreprocessChunk handles phase one of the two-phase protocol
// @Summary Pre-process a chunk
// @Description Transcribe, detect emotion and translate a chunk, then store the outcome under the session. No audio is generated.
// @Tags Translation
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio chunk"
// @Param chunk_index formData int false "Chunk position, >= 0"
// @Param is_final formData bool false "Last chunk of the recording"
// @Param session_id formData string false "Existing session; a new one is minted when empty"
// @Success 200 {object} PreprocessChunkResponse "Chunk stored"
// @Failure 400 {object} ErrorResponse "No speech detected or unsupported language"
// @Failure 500 {object} ErrorResponse "Pipeline stage failure"
// @Router /api/preprocess-chunk [post]
func (h *TranslateHandler) PreprocessChunk(c *gin.Context) {
	in, ok := h.bindChunk(c, h.maxAudioBytes)
	if !ok {
		return
	}

	res, err := h.pipeline.PreprocessChunk(c.Request.Context(), pipeline.PreprocessInput{
		Clip:       in.clip,
		ChunkIndex: in.index,
		IsFinal:    in.final,
		SessionID:  c.PostForm("session_id"),
	})
	if err != nil {
		h.logger.Errorf("preprocess-chunk %d: %v", in.index, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPreprocessChunkResponse(res))
}

// GenerateAudio handles phase two of the two-phase protocol
// @Summary Generate audio for a pre-processed chunk
// @Description Synthesize the stored translation with the stored emotion. Repeatable until the session expires or is closed.
// @Tags Translation
// @Accept json
// @Produce json
// @Param request body GenerateAudioRequest true "Session and chunk"
// @Success 200 {object} GenerateAudioResponse "Audio generated"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Unknown session or chunk"
// @Failure 500 {object} ErrorResponse "Synthesis failure"
// @Router /api/generate-audio [post]
func (h *TranslateHandler) GenerateAudio(c *gin.Context) {
	var req GenerateAudioRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	res, err := h.pipeline.GenerateAudio(c.Request.Context(), req.SessionID, *req.ChunkIndex)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewGenerateAudioResponse(res))
}

// CloseSession drops a session and all of its stored chunks
// @Summary Close a session
// @Tags Translation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse "Session closed"
// @Failure 404 {object} ErrorResponse "Unknown session"
// @Router /api/sessions/{id} [delete]
func (h *TranslateHandler) CloseSession(c *gin.Context) {
	if err := h.pipeline.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Session closed"})
}

type chunkForm struct {
	clip  audio.Blob
	index int
	final bool
}

func (h *TranslateHandler) bindChunk(c *gin.Context, limit int64) (chunkForm, bool) {
	clip, err := ReadAudioForm(c, limit)
	if err != nil {
		writeError(c, err)
		return chunkForm{}, false
	}
	index, err := formInt(c, "chunk_index", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return chunkForm{}, false
	}
	final, err := formBool(c, "is_final")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return chunkForm{}, false
	}
	return chunkForm{clip: clip, index: index, final: final}, true
}
