package controllers

import (
	"context"
	"net/http"
	"path"

	"github.com/caffeinepub/sajavathub-com-sub000/api/middleware"
	"github.com/caffeinepub/sajavathub-com-sub000/api/responses"
	"github.com/caffeinepub/sajavathub-com-sub000/api/validators"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// noArgs is the argument record of methods that take none.
type noArgs struct{}

// rpc decodes the named argument record of a POST /rpc/<method> call,
// validates it and writes the method result as the data envelope. fn runs
// for the authenticated caller, "" for guests.
func rpc[A, R any](logg *logger.Logger, fn func(ctx context.Context, caller string, args *A) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMethod(ctx, path.Base(r.URL.Path))
		}
		var args A
		if err := validators.DecodeRPCArgs(r, &args); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := fn(ctx, middleware.PrincipalFromContext(ctx), &args)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
