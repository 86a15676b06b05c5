package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/modules/images"
)

type ImageHandler struct {
	resolver *images.Resolver
}

func NewImageHandler(resolver *images.Resolver) *ImageHandler {
	return &ImageHandler{resolver: resolver}
}

// Proxy redirects to an image for the query. It never fails.
func (h *ImageHandler) Proxy(c *gin.Context) {
	res := h.resolver.Resolve(c.Request.Context(), c.Query("query"))
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-Image-Source", res.Source)
	c.Redirect(http.StatusFound, res.URL)
}
