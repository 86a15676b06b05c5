package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/modules/generation"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
)

const (
	HeaderSiteID         = "X-Site-Id"
	HeaderPreviewChannel = "X-Preview-Channel"
)

type GenerateHandler struct {
	log      *logger.Logger
	pipeline *generation.Pipeline
}

func NewGenerateHandler(log *logger.Logger, pipeline *generation.Pipeline) *GenerateHandler {
	return &GenerateHandler{log: log.With("handler", "GenerateHandler"), pipeline: pipeline}
}

// Generate streams the document as text/html and ends with a trailer. Errors
// found before the first byte are answered as JSON instead.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req types.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	owner := uuid.Nil
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		owner = rd.UserID
	}

	res, err := h.pipeline.Reserve(c.Request.Context(), owner, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header(HeaderSiteID, res.SiteID)
	c.Header(HeaderPreviewChannel, res.Channel)

	w := newStreamWriter(c.Writer)
	out, err := h.pipeline.Run(c.Request.Context(), res, w)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	h.log.Debug("Generate finished", "site_id", res.SiteID, "outcome", string(out.Kind))
}

// streamWriter sends the streaming headers with the first byte, so a JSON
// error can still be written while nothing has gone out.
type streamWriter struct {
	w       gin.ResponseWriter
	once    sync.Once
	mu      sync.Mutex
	started bool
}

func newStreamWriter(w gin.ResponseWriter) *streamWriter {
	return &streamWriter{w: w}
}

func (s *streamWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s.once.Do(func() {
		h := s.w.Header()
		h.Set("Content-Type", "text/html; charset=utf-8")
		h.Set("Cache-Control", "no-cache")
		h.Set("X-Accel-Buffering", "no")
		h.Set("X-Content-Type-Options", "nosniff")
		s.w.WriteHeader(http.StatusOK)
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
	})
	return s.w.Write(p)
}

func (s *streamWriter) Flush() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		s.w.Flush()
	}
}

func (s *streamWriter) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
