package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/modules/generation"
)

type RewriteHandler struct {
	rewriter *generation.Rewriter
}

func NewRewriteHandler(rewriter *generation.Rewriter) *RewriteHandler {
	return &RewriteHandler{rewriter: rewriter}
}

func (h *RewriteHandler) Rewrite(c *gin.Context) {
	var req generation.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.rewriter.Rewrite(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"html": out})
}
