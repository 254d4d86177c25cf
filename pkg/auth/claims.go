package auth

import "github.com/golang-jwt/jwt/v5"

// PrincipalClaims carries the caller principal. Roles are not embedded; they
// are resolved from the role store on every request.
type PrincipalClaims struct {
	Principal string `json:"principal"`
	jwt.RegisteredClaims
}
