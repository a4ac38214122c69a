// This is a **mock authentication service**, issuing JWT tokens for the
// onboarding service so admin operations can be exercised locally.
package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gartstein/onboarding/internal/onboarding/auth"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

type authConfig struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"jwt_secret"`
	Port      string `env:"AUTH_PORT" envDefault:"8081"`
}

func loadConfig() (authConfig, error) {
	var cfg authConfig
	if err := env.Parse(&cfg); err != nil {
		return authConfig{}, err
	}
	return cfg, nil
}

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// tokenHandler issues a token for the "sub" and "role" query parameters.
// Role defaults to admin.
func tokenHandler(secret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("sub")
		if userID == "" {
			userID = "12345"
		}
		role := r.URL.Query().Get("role")
		if role == "" {
			role = auth.AdminRole
		}

		token, err := auth.GenerateToken(userID, role, secret, tokenTTL)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TokenResponse{Token: token, Role: role}); err != nil {
			http.Error(w, "Failed to encode token", http.StatusInternalServerError)
		}
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	// Missing .env is fine; the process environment is used as is.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("Failed to parse environment", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler(cfg.JWTSecret, logger))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	logger.Info("Authentication service running", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}

