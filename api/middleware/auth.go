package middleware

import (
	"net/http"
	"strings"

	"github.com/caffeinepub/sajavathub-com-sub000/api/responses"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/auth"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Principal attaches the caller named by a bearer token. No Authorization
// header means a guest call; a header that does not verify is a 401.
func Principal(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParsePrincipalToken(cfg, bearer(header))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			ctx := logg.WithUserID(WithPrincipal(r.Context(), claims.Principal), claims.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearer strips an optional case-insensitive "Bearer " scheme.
func bearer(header string) string {
	token := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "bearer") {
		token = strings.TrimSpace(rest)
	}
	return token
}
