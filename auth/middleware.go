package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/config"
	"github.com/user/linkup-go/webutil"
)

// ContextKey is a private key type for context values set by this package.
type ContextKey string

// UserIDKey is the context key under which the authenticated user's id is
// stored by JWTMiddleware.
const UserIDKey ContextKey = "userID"

// JWTMiddleware verifies the bearer token in the Authorization header and
// stores the authenticated user id in the request context. Only access
// tokens pass; refresh tokens are rejected.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				webutil.WriteError(w, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			userID, err := userIDFromHeader(cfg, authHeader)
			if err != nil {
				webutil.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware populates the request context with the caller's user
// id when a valid access token is presented, and passes the request through
// anonymously otherwise. It never rejects a request; public endpoints use it
// to personalize responses for logged-in callers.
func OptionalJWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := userIDFromHeader(cfg, authHeader)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFromHeader validates an Authorization header carrying a bearer access
// token and returns the user id from its claims.
func userIDFromHeader(cfg *config.AuthConfig, authHeader string) (int64, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return 0, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil)
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, apperror.NewAuthError("Invalid token", err)
	}
	if claims.TokenType != tokenTypeAccess {
		return 0, apperror.NewAuthError("Invalid token type", nil)
	}
	if claims.UserID == 0 {
		return 0, apperror.NewAuthError("Invalid token: user_id claim is missing", nil)
	}
	return claims.UserID, nil
}

// UserIDFromContext retrieves the authenticated user id set by
// JWTMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
