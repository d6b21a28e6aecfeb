//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"venue-reservation/internal/handler/api"
	"venue-reservation/internal/infra/paystack"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/tests/common/httptest"
	commandsmock "venue-reservation/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWebhookHandler_Paystack(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"reference":"RES-TECHHUB-2025-001-1","amount":100000}}`)

	tests := []struct {
		name       string
		result     error
		expectCode int
		expectBody string
	}{
		{"acknowledged", nil, http.StatusOK, `{"received":true}`},
		{"bad signature", commands.ErrInvalidSignature, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			ctrl := gomock.NewController(t)
			cmds := commandsmock.NewMockReservationCommands(ctrl)
			router := gin.New()
			router.POST("/paystack/webhook", api.NewWebhookHandler(cmds).Paystack)

			// the raw bytes and header must reach the use case untouched
			cmds.EXPECT().HandleGatewayCallback(gomock.Any(), payload, "abc123").Return(tt.result)

			rec := httptest.PerformRawRequest(t, router, http.MethodPost, "/paystack/webhook", payload, map[string]string{
				"Content-Type":           "application/json",
				paystack.SignatureHeader: "abc123",
			})

			if tt.expectBody != "" {
				assert.Equal(t, tt.expectCode, rec.Code)
				assert.JSONEq(t, tt.expectBody, rec.Body.String())
				return
			}
			httptest.AssertErrorCode(t, rec, tt.expectCode, api.CodeInvalidSignature)
		})
	}
}
