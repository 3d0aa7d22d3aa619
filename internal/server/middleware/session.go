// Package middleware provides HTTP middleware that binds requests to editor sessions.
package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-studio/internal/session"
	"github.com/jonathan/cv-studio/internal/types"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "cv_session"

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const sessionKey ContextKey = "session"

// TokenService signs and verifies session tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenService interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (SessionClaims, error)
}

// SessionClaims is the verified content of a session token.
type SessionClaims interface {
	GetSessionID() uuid.UUID
	IssueTime() time.Time
}

// SessionStore looks up and creates sessions.
type SessionStore interface {
	Get(id uuid.UUID) (*session.Session, bool)
	Create(ui *types.UiState) *session.Session
}

// SessionOptions configures SessionMiddleware.
type SessionOptions struct {
	Tokens   TokenService
	Sessions SessionStore
	// InitialUI picks the UI state of a new session, for example from
	// Accept-Language. Nil uses the store defaults.
	InitialUI func(r *http.Request) types.UiState
	MaxAge    time.Duration
	Secure    bool
	// RequireExisting answers 401 instead of starting a session when the
	// request names no live one.
	RequireExisting bool
}

// SessionMiddleware resolves the session named by the cookie, or starts a new
// one when the cookie is missing, invalid, expired or names a session that no
// longer exists.
func SessionMiddleware(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, claims := lookup(opts, r)
			refresh := s != nil && opts.MaxAge > 0 && time.Since(claims.IssueTime()) > opts.MaxAge/2

			if s == nil && opts.RequireExisting {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if s == nil {
				var ui *types.UiState
				if opts.InitialUI != nil {
					state := opts.InitialUI(r)
					ui = &state
				}
				s = opts.Sessions.Create(ui)
				refresh = true
			}

			if refresh {
				token, err := opts.Tokens.GenerateToken(s.ID)
				if err != nil {
					log.Printf("[session] failed to sign token: %v", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func lookup(opts SessionOptions, r *http.Request) (*session.Session, SessionClaims) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	claims, err := opts.Tokens.ValidateToken(cookie.Value)
	if err != nil {
		return nil, nil
	}
	s, ok := opts.Sessions.Get(claims.GetSessionID())
	if !ok {
		return nil, nil
	}
	return s, claims
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession extracts the session from the request context.
func GetSession(r *http.Request) (*session.Session, error) {
	s, ok := r.Context().Value(sessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, fmt.Errorf("session not found in request context")
	}
	return s, nil
}
