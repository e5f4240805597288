package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
)

// RoleAdmin may delete stored reports.
const RoleAdmin = "admin"

// RequireAdmin middleware ensures the caller has the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{RoleAdmin}, logger)
}

// RequireRole middleware ensures the caller has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				Problem{Status: http.StatusForbidden, Reason: ReasonForbidden, Message: "insufficient permissions"}.Respond(w)
				return
			}

			if !slices.Contains(allowedRoles, role) {
				logger.Warn("Role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				Problem{Status: http.StatusForbidden, Reason: ReasonForbidden, Message: "insufficient permissions"}.Respond(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
