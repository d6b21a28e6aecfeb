package api

import (
	"io"
	"net/http"

	resdto "venue-reservation/internal/handler/dto/response"
	"venue-reservation/internal/handler/httperr"
	"venue-reservation/internal/infra/paystack"
	"venue-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Paystack payloads are small; anything larger is not a real callback.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	cmds commands.ReservationCommands
}

func NewWebhookHandler(cmds commands.ReservationCommands) *WebhookHandler {
	return &WebhookHandler{cmds: cmds}
}

// @Summary Paystack webhook
// @Description Receives gateway events. The signature covers the raw body, so it is read unparsed.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Paystack-Signature header string true "HMAC-SHA512 of the body"
// @Success 200 {object} resdto.WebhookAckResponse
// @Failure 401 {object} httperr.Response
// @Router /paystack/webhook [post]
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, CodeValidation, "Unreadable body", nil)
		return
	}
	signature := c.GetHeader(paystack.SignatureHeader)
	if err := h.cmds.HandleGatewayCallback(c.Request.Context(), body, signature); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.WebhookAckResponse{Received: true})
}
