package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/platform/logger"
	"github.com/foundrr/foundrr-backend/internal/realtime"
)

const maxStreamChannels = 8

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// SSEStream joins the caller's user channel plus any requested channels the
// caller owns. Preview channels arrive in the X-Preview-Channel header of
// the generate response.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requested := c.QueryArray("channel")
	if len(requested) > maxStreamChannels {
		response.RespondError(c, http.StatusBadRequest, "too_many_channels", errors.New("too many channels"))
		return
	}
	for _, ch := range requested {
		if !realtime.OwnsChannel(userID, ch) {
			response.RespondError(c, http.StatusForbidden, "forbidden_channel", errors.New("channel not allowed"))
			return
		}
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, realtime.UserChannel(userID))
	for _, ch := range requested {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("SSE stream open", "client_id", client.ID, "channels", len(requested)+1)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
