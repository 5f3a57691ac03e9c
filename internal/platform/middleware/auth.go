package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating bearer tokens issued by
// the identity service. Only the claims the game needs are surfaced.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	PlayerID int64
	Name     string
}

type contextKeyPlayerID struct{}
type contextKeyPlayerName struct{}

var (
	ContextKeyPlayerID   = contextKeyPlayerID{}
	ContextKeyPlayerName = contextKeyPlayerName{}
)

// GetPlayerID retrieves the authenticated player id from the context.
// Zero means no authenticated player.
func GetPlayerID(ctx context.Context) int64 {
	id, ok := ctx.Value(ContextKeyPlayerID).(int64)
	if !ok {
		return 0
	}
	return id
}

// GetPlayerName retrieves the authenticated player name from the context.
func GetPlayerName(ctx context.Context) string {
	name, ok := ctx.Value(ContextKeyPlayerName).(string)
	if !ok {
		return ""
	}
	return name
}

// RequireAuth rejects requests without a valid bearer token and injects the
// player identity into the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				unauthorized(w, r, logger, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w, r, logger, "invalid or expired token")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyPlayerID, claims.PlayerID)
			ctx = context.WithValue(ctx, ContextKeyPlayerName, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write unauthorized response",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
	}
}
