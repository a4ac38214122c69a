package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gartstein/onboarding/internal/onboarding/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("AUTH_PORT", "")
		require.NoError(t, os.Unsetenv("JWT_SECRET"))
		require.NoError(t, os.Unsetenv("AUTH_PORT"))

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, authConfig{JWTSecret: "jwt_secret", Port: "8081"}, cfg)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("AUTH_PORT", "9090")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, authConfig{JWTSecret: "s3cret", Port: "9090"}, cfg)
	})
}

func TestTokenHandler(t *testing.T) {
	const secret = "test-secret"
	handler := tokenHandler(secret, zaptest.NewLogger(t))

	tests := []struct {
		name     string
		query    string
		wantSub  string
		wantRole string
	}{
		{name: "Defaults", query: "", wantSub: "12345", wantRole: auth.AdminRole},
		{name: "Member", query: "?sub=u-1&role=member", wantSub: "u-1", wantRole: "member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/token"+tt.query, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp TokenResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantRole, resp.Role)

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, claims["sub"])
			assert.Equal(t, tt.wantRole, claims["role"])
		})
	}
}
