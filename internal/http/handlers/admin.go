package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/modules/payments"
)

type AdminHandler struct {
	payments *payments.Service
}

func NewAdminHandler(svc *payments.Service) *AdminHandler {
	return &AdminHandler{payments: svc}
}

func (h *AdminHandler) Pending(c *gin.Context) {
	list, err := h.payments.ListPending(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sites": list})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	var req struct {
		SiteID string               `json:"siteId"`
		Action payments.ReviewAction `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	site, err := h.payments.Review(c.Request.Context(), req.SiteID, req.Action)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"site": site})
}
