package middleware

import (
	"net/http"

	"steeltrade/internal/domain"

	"go.uber.org/zap"
)

// RequireAnyRole ensures the caller's role set contains at least one of the
// given roles. Requests failing the check never reach the handler.
func RequireAnyRole(logger *zap.Logger, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles, ok := GetUserRoles(r.Context())
			if !ok {
				logger.Warn("Role set not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, want := range allowed {
				for _, have := range roles {
					if have == want {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			logger.Warn("Caller role set not authorized",
				zap.Any("roles", roles),
				zap.Any("allowed_roles", allowed),
			)
			respondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// RequireAdmin ensures the caller carries the ADMIN role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireAnyRole(logger, domain.RoleAdmin)
}
