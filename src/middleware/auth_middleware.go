package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ParseToken validates the bearer token from the request against the shared
// HMAC secret, returning the claims and the raw token. The raw token is kept
// because every upstream call re-attaches it.
func ParseToken(r *http.Request, secret string) (jwt.MapClaims, string, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, "", fmt.Errorf("missing token")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, "", fmt.Errorf("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		return claims, tokenString, nil
	}

	return nil, "", fmt.Errorf("invalid token claims")
}

// JWTAuthMiddleware verifies the bearer credential and exposes the user id
// and the raw token to handlers. The secret is injected from config rather
// than read from the environment per request.
func JWTAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, rawToken, err := ParseToken(r, secret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			userIDClaim, ok := claims["user_id"].(float64)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}
			userID := int64(userIDClaim)

			ctx := context.WithValue(r.Context(), "user_id", userID)
			ctx = context.WithValue(ctx, "token", rawToken)

			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)
		})
	}
}
