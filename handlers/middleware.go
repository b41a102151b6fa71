package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/camden-git/campaidbackend/models"
	"github.com/camden-git/campaidbackend/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// userFromContext returns the user placed in the context by AuthMiddleware.
func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// AuthMiddleware verifies the bearer token and, if valid, loads the user into
// the request context.
func AuthMiddleware(userRepo repository.UserRepository, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid token")
				return
			}

			userID, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				zap.L().Warn("malformed token subject", zap.String("subject", claims.Subject), zap.String("jti", claims.ID))
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid user ID in token")
				return
			}

			// the user may have been removed after the token was issued
			user, err := userRepo.GetByID(uint(userID))
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGlobalPermission rejects users lacking the permission. It must run after AuthMiddleware.
func RequireGlobalPermission(requiredPermission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "User not found in context")
				return
			}

			if !user.HasGlobalPermission(requiredPermission) {
				WriteAPIError(w, http.StatusForbidden, CodeForbidden,
					fmt.Sprintf("Forbidden: requires global permission '%s'", requiredPermission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
