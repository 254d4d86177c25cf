package middleware

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

const rpcPrefix = "/api/v1/rpc/"

// Logging writes one line per request once the handler returns. Probe and
// scrape traffic is logged at debug level.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := map[string]any{
				"http_method": r.Method,
				"path":        r.URL.Path,
			}
			if strings.HasPrefix(r.URL.Path, rpcPrefix) {
				fields["rpc_method"] = path.Base(r.URL.Path)
			}
			ctx := logg.WithFields(r.Context(), fields)

			rec := newRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			ctx = logg.WithFields(ctx, map[string]any{
				"status":      rec.Status(),
				"bytes":       rec.written,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch {
			case isProbe(r.URL.Path):
				logg.Debug(ctx, "request.complete")
			case rec.Status() >= http.StatusInternalServerError:
				logg.Warn(ctx, "request.complete")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}

func isProbe(p string) bool {
	return strings.HasPrefix(p, "/health/") || p == "/metrics"
}
