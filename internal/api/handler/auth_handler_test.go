package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/config"
	"credit-engine/internal/pkg/apperrors"
)

func newAuthHandlerConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Auth: config.AuthConfig{
				Enabled:   true,
				JWTSecret: "test-jwt-secret-key",
			},
		},
	}
}

func TestGenerateBearerToken(t *testing.T) {
	handler := NewAuthHandler(newAuthHandlerConfig(), newHandlerTestLogger())

	t.Run("successfully generates token", func(t *testing.T) {
		body, _ := json.Marshal(dto.TokenRequest{Username: "testuser"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var respBody map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&respBody))
		require.True(t, strings.HasPrefix(respBody["token"], "Bearer "))

		raw := strings.TrimPrefix(respBody["token"], "Bearer ")
		parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-jwt-secret-key"), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)

		claims, ok := parsed.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "testuser", claims["username"])
	})

	t.Run("fails with invalid request body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("invalid json"))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var respBody dto.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&respBody))
		assert.Contains(t, respBody.Error.Message, apperrors.ErrInvalidArgument.Error())
	})

	t.Run("fails with missing username", func(t *testing.T) {
		body, _ := json.Marshal(dto.TokenRequest{})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var respBody dto.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&respBody))
		assert.Contains(t, respBody.Error.Message, "username is required")
	})
}
