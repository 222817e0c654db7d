package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xpanvictor/emovox/internal/domains/pipeline"
	"github.com/xpanvictor/emovox/internal/domains/session"
	"github.com/xpanvictor/emovox/internal/handlers"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/audio/audioring"
)

// ChunkPipeline is the two-phase protocol the socket drives.
type ChunkPipeline interface {
	PreprocessChunk(ctx context.Context, in pipeline.PreprocessInput) (*pipeline.PreprocessResult, error)
	GenerateAudio(ctx context.Context, sessionID string, chunkIndex int) (*pipeline.GenerateResult, error)
}

// WebSocketHandler captures chunked PCM over a socket and runs the two-phase
// protocol on each completed chunk.
type WebSocketHandler struct {
	logger            *Logger.Logger
	pipeline          ChunkPipeline
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
	bufferSize        int
}

// NewWebSocketHandler creates a new WebSocket handler. bufferSize bounds the audio
// one chunk may accumulate before chunk_end.
func NewWebSocketHandler(logger *Logger.Logger, p ChunkPipeline, bufferSize int, idleTimeout time.Duration) *WebSocketHandler {
	logger = logger.Named("ws")
	return &WebSocketHandler{
		logger:            logger,
		pipeline:          p,
		connectionManager: NewConnectionManager(logger, idleTimeout, idleTimeout/2),
		bufferSize:        bufferSize,
		upgrader: websocket.Upgrader{
			// TODO: restrict origins once the web client has a fixed host
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter) {
	ws := router.Group("/ws")
	{
		ws.GET("/chunks", h.HandleChunks)
		ws.GET("/stats", h.HandleStats)
	}
}

// Close closes every open connection
func (h *WebSocketHandler) Close() error {
	return h.connectionManager.Close()
}

// HandleStats reports open connections
func (h *WebSocketHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.connectionManager.Snapshot())
}

// HandleChunks upgrades the request and serves one capture session. The client
// may resume an earlier session with ?session_id=.
func (h *WebSocketHandler) HandleChunks(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = session.NewID()
	}
	s := NewSession(sessionID, conn, h.bufferSize)

	h.connectionManager.RegisterConnection(s)
	defer h.connectionManager.UnregisterConnection(s)

	if err := s.SendWebSocketMessage(MessageTypeSession, gin.H{"session_id": sessionID}); err != nil {
		h.logger.Errorf("ws %s: greeting failed: %v", sessionID, err)
		return
	}

	var inflight sync.WaitGroup
	h.handleConnection(s, &inflight)
	// let running chunks finish; their replies are dropped once the socket is gone
	inflight.Wait()
}

func (h *WebSocketHandler) handleConnection(s *Session, inflight *sync.WaitGroup) {
	for {
		messageType, msg, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("ws %s read error: %v", s.SessionID, err)
			}
			return
		}
		s.Touch()

		switch messageType {
		case websocket.BinaryMessage:
			h.handleFrame(s, msg)
		case websocket.TextMessage:
			h.handleControl(s, msg, inflight)
		default:
			h.logger.Warnf("ws %s: unknown message type %d", s.SessionID, messageType)
		}
	}
}

func (h *WebSocketHandler) handleFrame(s *Session, msg []byte) {
	frame, err := audioring.ParseFrame(msg, time.Now())
	if err != nil {
		s.SendError(codeBadFrame, err.Error(), nil)
		return
	}
	if err := s.Buffer.Push(frame); err != nil {
		if errors.Is(err, audioring.ErrOverflow) {
			h.logger.Warnf("ws %s: chunk exceeds %d bytes, discarding", s.SessionID, s.Buffer.Capacity())
			s.Buffer.Reset()
			s.SendError(codeChunkTooLarge, pipeline.ErrChunkTooLarge.Error(), nil)
			return
		}
		h.logger.Errorf("ws %s: buffering frame: %v", s.SessionID, err)
		s.SendError(codeInternal, "failed to buffer audio", nil)
	}
}

func (h *WebSocketHandler) handleControl(s *Session, msg []byte, inflight *sync.WaitGroup) {
	var ctrl ControlMessage
	if err := json.Unmarshal(msg, &ctrl); err != nil {
		s.SendError(codeBadMessage, "control messages must be JSON", nil)
		return
	}
	if ctrl.ChunkIndex == nil || *ctrl.ChunkIndex < 0 {
		s.SendError(codeInvalid, pipeline.ErrInvalidChunkIndex.Error(), ctrl.ChunkIndex)
		return
	}
	index := *ctrl.ChunkIndex

	switch ctrl.Type {
	case MessageTypeChunkEnd:
		frames := s.Buffer.Drain()
		if len(frames) == 0 {
			s.SendError(codeEmptyChunk, "no audio received for chunk", &index)
			return
		}
		clip := audio.Blob{
			Data:     audioring.PackWAV(frames),
			MIMEType: "audio/wav",
			Filename: fmt.Sprintf("chunk-%d.wav", index),
		}
		// chunks run independently and may finish out of order
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			h.preprocess(s, clip, index, ctrl.IsFinal)
		}()
	case MessageTypeGenerate:
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			h.generate(s, index)
		}()
	default:
		s.SendError(codeBadMessage, fmt.Sprintf("unknown control type %q", ctrl.Type), &index)
	}
}

func (h *WebSocketHandler) preprocess(s *Session, clip audio.Blob, index int, final bool) {
	res, err := h.pipeline.PreprocessChunk(context.Background(), pipeline.PreprocessInput{
		Clip:       clip,
		ChunkIndex: index,
		IsFinal:    final,
		SessionID:  s.SessionID,
	})
	if err != nil {
		h.logger.Errorf("ws %s chunk %d: %v", s.SessionID, index, err)
		h.sendFailure(s, err, index)
		return
	}
	if err := s.SendWebSocketMessage(MessageTypePreprocessed, handlers.NewPreprocessChunkResponse(res)); err != nil {
		h.logger.Debugf("ws %s: reply dropped: %v", s.SessionID, err)
	}
}

func (h *WebSocketHandler) generate(s *Session, index int) {
	res, err := h.pipeline.GenerateAudio(context.Background(), s.SessionID, index)
	if err != nil {
		h.sendFailure(s, err, index)
		return
	}
	if err := s.SendWebSocketMessage(MessageTypeAudio, handlers.NewGenerateAudioResponse(res)); err != nil {
		h.logger.Debugf("ws %s: reply dropped: %v", s.SessionID, err)
	}
}

func (h *WebSocketHandler) sendFailure(s *Session, err error, index int) {
	code := codeInternal
	switch handlers.StatusFor(err) {
	case http.StatusNotFound:
		code = codeNotFound
	case http.StatusBadRequest:
		code = codeInvalid
	}
	s.SendError(code, err.Error(), &index)
}
