package users

import (
	"context"
	"strings"

	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
)

// Authorizer answers role questions for the other domain services.
type Authorizer interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
}

// RequirePrincipal rejects anonymous callers.
func RequirePrincipal(principal string) error {
	if strings.TrimSpace(principal) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller must be authenticated")
	}
	return nil
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(ctx context.Context, authz Authorizer, principal string) error {
	if err := RequirePrincipal(principal); err != nil {
		return err
	}
	ok, err := authz.IsAdmin(ctx, principal)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve caller role")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}

// CanAccessOwned reports whether principal owns the resource or is an admin.
func CanAccessOwned(ctx context.Context, authz Authorizer, principal, owner string) (bool, error) {
	if principal == "" {
		return false, nil
	}
	if principal == owner {
		return true, nil
	}
	ok, err := authz.IsAdmin(ctx, principal)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve caller role")
	}
	return ok, nil
}
