package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agendapro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	keys := services.NewApiKeyService(nil, "agendapro_live", zerolog.Nop())
	ctl := NewWebhookController(nil, keys, nil, zerolog.Nop())

	r := gin.New()
	r.POST("/webhook/whatsapp", ctl.ReceiveWhatsAppMessage)
	r.POST("/webhook/customers", ctl.CreateCustomerFromWebhook)
	r.POST("/webhook/appointments", ctl.CreateAppointmentFromWebhook)
	return r
}

func TestWebhookRejectsMissingKeyBeforeReadingBody(t *testing.T) {
	// A caller without a key gets 401 no matter what the body looks like;
	// responding 400 to malformed JSON would tell unauthenticated callers
	// about the expected payload shape.
	r := webhookRouter()

	for _, path := range []string{"/webhook/whatsapp", "/webhook/customers", "/webhook/appointments"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{not json"))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "API key")
		})
	}
}
