package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const memberIDKey contextKey = "memberID"

// Authenticator verifies HS256 bearer tokens and stores the member id
// claim in the request context.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "Invalid authorization header format")
			return
		}

		memberID, err := a.validateToken(parts[1])
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithMemberID(r.Context(), memberID)))
	})
}

func (a *Authenticator) validateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}

	raw, ok := claims["member_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("member_id claim missing")
	}
	memberID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("member_id claim: %w", err)
	}
	return memberID, nil
}

// IssueToken signs a token for memberID. Used by tests and local tooling;
// production tokens come from the platform's auth service.
func (a *Authenticator) IssueToken(memberID uuid.UUID, claims jwt.MapClaims) (string, error) {
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["member_id"] = memberID.String()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func WithMemberID(ctx context.Context, memberID uuid.UUID) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// MemberIDFromContext returns the authenticated member, if any.
func MemberIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	memberID, ok := ctx.Value(memberIDKey).(uuid.UUID)
	return memberID, ok && memberID != uuid.Nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
