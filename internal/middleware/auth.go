package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
	RoleKey    contextKey = "role"
)

// AuthMiddleware validates HS256 bearer tokens and stores the "sub" and
// "role" claims in the request context. Tokens are issued outside this
// service.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "missing authorization header"}.Respond(w)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid authorization header format"}.Respond(w)
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "token expired"}.Respond(w)
				} else {
					Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid token"}.Respond(w)
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid token"}.Respond(w)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				logger.Error("Failed to extract claims from token")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid token claims"}.Respond(w)
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				logger.Debug("Missing sub in token claims")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid token claims"}.Respond(w)
				return
			}

			role, ok := claims["role"].(string)
			if !ok {
				logger.Debug("Missing role in token claims")
				Problem{Status: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "invalid token claims"}.Respond(w)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			ctx = context.WithValue(ctx, RoleKey, role)

			logger.Debug("Request authenticated",
				zap.String("subject", subject),
				zap.String("role", role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject extracts the authenticated subject from request context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}

// GetRole extracts the authenticated role from request context
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
