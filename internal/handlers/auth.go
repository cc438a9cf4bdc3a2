package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig carries everything needed to issue and verify bearer tokens.
// PasswordHash is a bcrypt hash of the API password.
type AuthConfig struct {
	Secret       string
	TokenTTL     time.Duration
	User         string
	PasswordHash string
}

type contextKey string

// subjectKey holds the authenticated subject in the request context.
const subjectKey contextKey = "subject"

// Subject returns the authenticated subject from the request context, if any.
func Subject(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

// IssueToken handles POST /api/auth/token: checks the configured credential
// and returns a signed HS256 token for use on protected mutations.
func (h *Handlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(remoteIP(r)) {
		writeProblem(w, r, problem{
			Type:   "/problems/rate-limited",
			Title:  "Too many requests",
			Status: http.StatusTooManyRequests,
			Detail: "too many token requests, try again later",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondBadRequest(w, r, "invalid JSON body")
		return
	}
	if input.Username == "" || input.Password == "" {
		respondValidation(w, r, map[string]string{
			"username": "username is required",
			"password": "password is required",
		})
		return
	}

	if input.Username != h.auth.User ||
		bcrypt.CompareHashAndPassword([]byte(h.auth.PasswordHash), []byte(input.Password)) != nil {
		respondUnauthorized(w, r, "invalid username or password")
		return
	}

	expiresAt := time.Now().Add(h.auth.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": input.Username,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(h.auth.Secret))
	if err != nil {
		respondProblem(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":     signed,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// RequireAuth verifies the bearer token on protected routes and stores the
// token subject in the request context.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, r, "missing Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.auth.Secret), nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			respondUnauthorized(w, r, "invalid or expired token")
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			respondUnauthorized(w, r, "token has no subject")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, sub)))
	})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
