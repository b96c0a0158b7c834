package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vancomm/minesweeper-gym/internal/config"
)

type CtxKey int

const (
	CtxClaims CtxKey = iota
)

func ClaimsFrom(ctx context.Context) (*config.Claims, bool) {
	claims, ok := ctx.Value(CtxClaims).(*config.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if ok && token != "" {
		return token, true
	}
	// Browsers cannot set headers on websocket upgrades.
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, true
	}
	return "", false
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="minesweeper-gym"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"kind":  "unauthorized",
	})
}

// Auth requires a valid bearer token on every path except the public ones.
func Auth(logger *slog.Logger, j *config.JWT, public ...string) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range public {
				if r.URL.Path == p {
					h.ServeHTTP(w, r)
					return
				}
			}
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := j.Parse(token)
			if err != nil {
				logger.Debug("rejected token", slog.Any("error", err))
				unauthorized(w, "invalid bearer token")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
