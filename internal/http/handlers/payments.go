package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundrr/foundrr-backend/internal/http/response"
	"github.com/foundrr/foundrr-backend/internal/modules/payments"
	"github.com/foundrr/foundrr-backend/internal/platform/ctxutil"
)

const maxWebhookBytes = 1 << 20

type PaymentHandler struct {
	payments *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

func (h *PaymentHandler) Pricing(c *gin.Context) {
	email := ""
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		email = rd.Email
	}
	q, err := h.payments.Pricing(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.RespondOK(c, q)
}

func (h *PaymentHandler) Checkout(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	var req struct {
		SiteID string `json:"siteId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	link, err := h.payments.CreateCheckout(c.Request.Context(), *rd, req.SiteID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"paymentLink": link})
}

// Webhook must see the body exactly as signed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.payments.HandleWebhook(c.Request.Context(), c.Request.Header, body); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"received": true})
}

func (h *PaymentHandler) ManualPayment(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var req payments.ManualPayment
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	site, err := h.payments.SubmitManualPayment(c.Request.Context(), owner, c.Param("id"), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"site": site})
}
