package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/auth"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

type devTokenArgs struct {
	Principal string `json:"principal" validate:"required"`
}

type devTokenResponse struct {
	Token     string `json:"token"`
	Principal string `json:"principal"`
}

// DevToken mints a bearer token for an arbitrary principal. Routed only in
// the dev environment; elsewhere the identity provider issues tokens.
func DevToken(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return rpc(logg, func(ctx context.Context, _ string, args *devTokenArgs) (*devTokenResponse, error) {
		token, err := auth.MintPrincipalToken(cfg, time.Now(), args.Principal)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
		}
		if logg != nil {
			logg.Info(logg.WithUserID(ctx, args.Principal), "dev token issued")
		}
		return &devTokenResponse{Token: token, Principal: args.Principal}, nil
	})
}
