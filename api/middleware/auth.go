package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/sellerdesk-backend/api/responses"
	pkgAuth "github.com/angelmondragon/sellerdesk-backend/pkg/auth"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the caller id.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Unauthenticated("missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid token"))
				return
			}

			userID := claims.UserID.String()
			ctx := WithSellerID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithSellerID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
