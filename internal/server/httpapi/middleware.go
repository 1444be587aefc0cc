package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/logging"
	"github.com/dmitrijs2005/ordermanager/internal/server/auth"
	"github.com/dmitrijs2005/ordermanager/internal/server/services"
)

// Refresher exchanges a refresh token for a fresh token pair. Satisfied by
// services.AccountService.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*services.AuthenticationResponse, error)
}

// Auth verifies the bearer token and resolves the caller identity. The
// middleware distinguishes three outcomes:
//
//   - no bearer token, or one that is not even shaped like a bearer token:
//     the request continues unauthenticated and route-level protection
//     decides;
//   - a valid token: the identity goes into the request context;
//   - an expired token: the refresh sub-flow runs against the RefreshToken
//     header and, on success, answers with a fresh pair instead of the
//     original request.
//
// Every other verification failure is a 401 and the refresh store is never
// consulted.
func Auth(codec *auth.Codec, refresher Refresher, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(header, common.BearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
			if token == "" {
				// a bare "Bearer" prefix counts as no token at all
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Decode(token)
			if err == nil {
				id := Identity{UserID: claims.Subject, Email: claims.Email, PersonName: claims.PersonName}
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			if !errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, err)
				return
			}

			refreshToken := r.Header.Get(common.RefreshTokenHeaderName)
			if refreshToken == "" {
				writeError(w, common.ErrRefreshTokenMissing)
				return
			}

			logger.Debug(r.Context(), "access token expired, attempting refresh")

			resp, err := refresher.Refresh(r.Context(), refreshToken)
			if err != nil {
				if !errors.Is(err, common.ErrRefreshTokenInvalid) {
					logger.Error(r.Context(), "token refresh failed", "error", err)
				}
				writeError(w, err)
				return
			}

			w.Header().Set(common.AuthorizationHeaderName, common.BearerPrefix+resp.Token)
			w.Header().Set(common.RefreshTokenHeaderName, resp.RefreshToken)
			writeJSON(w, http.StatusOK, toAuthenticationBody(resp))
		})
	}
}

// RequireAuth rejects requests that reached the handler without an
// authenticated identity in context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs method, path, status, and duration for every request.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}
