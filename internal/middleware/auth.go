package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/http/respond"
)

type contextKey string

const claimsKey = contextKey("claims")

// Authenticate rejects requests without a valid bearer token. A missing token
// yields 401; a bad, expired or revoked one yields 403. On success the token
// claims are stored in the request context.
func Authenticate(tokens *auth.TokenManager, denylist auth.Denylist, log zerolog.Logger) func(http.Handler) http.Handler {
	if denylist == nil {
		denylist = auth.NopDenylist{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, http.StatusUnauthorized, "authorization required")
				return
			}
			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					respond.Error(w, r, http.StatusForbidden, "token expired")
					return
				}
				respond.Error(w, r, http.StatusForbidden, "invalid token")
				return
			}
			revoked, err := denylist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Msg("check token denylist")
				respond.Error(w, r, http.StatusServiceUnavailable, "unable to verify token")
				return
			}
			if revoked {
				respond.Error(w, r, http.StatusForbidden, auth.ErrTokenRevoked.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user id, or 0 if there is none.
func UserIDFromContext(ctx context.Context) int64 {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0
	}
	return claims.UserID
}

// WithClaims stores claims in ctx the same way Authenticate does.
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
