package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Route matches requests by method and path prefix; a non-empty Suffix
// must also match the end of the path.
type Route struct {
	Method string
	Prefix string
	Suffix string
}

func (r Route) matches(req *http.Request) bool {
	return req.Method == r.Method &&
		strings.HasPrefix(req.URL.Path, r.Prefix) &&
		strings.HasSuffix(req.URL.Path, r.Suffix)
}

// HTTPMiddleware requires an admin token on requests matching any of
// protected and passes everything else through.
func HTTPMiddleware(next http.Handler, jwtSecret string, protected ...Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r, protected) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if !isAdmin(claims) {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}

func isProtectedRequest(r *http.Request, protected []Route) bool {
	for _, route := range protected {
		if route.matches(r) {
			return true
		}
	}
	return false
}
