package middleware

import (
	"context"
	"net/http"
	"strings"

	"steeltrade/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
)

// AuthMiddleware validates bearer tokens and resolves the caller's role set
// into the request context. Handlers and services never see the raw token.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if err == jwt.ErrTokenExpired {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				logger.Error("Missing user_id in token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			rawRoles, ok := claims["roles"].([]interface{})
			if !ok || len(rawRoles) == 0 {
				logger.Error("Missing roles in token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			roles := make([]domain.Role, 0, len(rawRoles))
			for _, raw := range rawRoles {
				role, ok := raw.(string)
				if !ok {
					logger.Error("Malformed role in token claims")
					respondWithError(w, http.StatusUnauthorized, "invalid token claims")
					return
				}
				roles = append(roles, domain.Role(role))
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRolesKey, roles)

			logger.Debug("User authenticated",
				zap.String("user_id", userID),
				zap.Any("roles", roles),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRoles extracts the caller's resolved role set from the request context
func GetUserRoles(ctx context.Context) ([]domain.Role, bool) {
	roles, ok := ctx.Value(UserRolesKey).([]domain.Role)
	return roles, ok
}
