package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/modules/sites"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
)

type SiteHandler struct {
	sites *sites.Service
}

func NewSiteHandler(svc *sites.Service) *SiteHandler {
	return &SiteHandler{sites: svc}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *SiteHandler) List(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.sites.List(c.Request.Context(), owner, limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sites": list})
}

func (h *SiteHandler) Get(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	site, err := h.sites.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"site": site})
}

func (h *SiteHandler) Document(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	_, markup, err := h.sites.Document(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

func (h *SiteHandler) Download(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	site, markup, err := h.sites.Download(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+sites.DownloadName(site)+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}
