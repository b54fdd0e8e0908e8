package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	apperrors "github.com/borcelle/storefront/pkg/errors"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &apperrors.ErrNotFound{Resource: "order", ID: "1"}, http.StatusNotFound},
		{"unauthorized", &apperrors.ErrUnauthorized{Message: "expired"}, http.StatusUnauthorized},
		{"transition", &apperrors.ErrInvalidStateTransition{Entity: "order", From: "DELIVERED", To: "CANCELLED"}, http.StatusConflict},
		{"conflict", &apperrors.ErrConflict{Message: "busy"}, http.StatusConflict},
		{"validation", &apperrors.ErrValidation{Field: "totalAmount", Message: "mismatch"}, http.StatusUnprocessableEntity},
		{"upstream", &apperrors.ErrUpstream{Service: "orders API", Err: fmt.Errorf("status 500")}, http.StatusBadGateway},
		{"wrapped", fmt.Errorf("loading: %w", &apperrors.ErrNotFound{Resource: "order", ID: "1"}), http.StatusNotFound},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, zap.NewNop(), tt.err, "something failed")

			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}
