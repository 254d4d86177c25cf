package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/caffeinepub/sajavathub-com-sub000/api/responses"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Recoverer answers a panicking handler with INTERNAL_ERROR, unless the
// handler had already started its response. http.ErrAbortHandler is re-raised
// for net/http to handle.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newRecorder(w)
			defer handlePanic(logg, rec, r)
			next.ServeHTTP(rec, r)
		})
	}
}

func handlePanic(logg *logger.Logger, rec *recorder, r *http.Request) {
	v := recover()
	switch err, _ := v.(error); {
	case v == nil:
		return
	case errors.Is(err, http.ErrAbortHandler):
		panic(v)
	}
	cause := fmt.Errorf("panic: %v", v)
	ctx := logg.WithField(r.Context(), "panic_stack", string(debug.Stack()))
	logg.Error(ctx, "panic.recovered", cause)
	if !rec.wroteHeader() {
		responses.WriteError(r.Context(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "panic"))
	}
}
