package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
)

// Tokens are HS256 only.
var method = jwt.SigningMethodHS256

var (
	ErrNoSecret    = errors.New("auth: jwt secret is not configured")
	ErrNoPrincipal = errors.New("auth: token carries no principal")
)

// MintPrincipalToken signs a token for principal valid from now for the
// configured number of minutes.
func MintPrincipalToken(cfg config.JWTConfig, now time.Time, principal string) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", ErrNoSecret
	case cfg.Issuer == "":
		return "", errors.New("auth: jwt issuer is not configured")
	case cfg.ExpirationMinutes <= 0:
		return "", fmt.Errorf("auth: token lifetime %dm is not positive", cfg.ExpirationMinutes)
	}
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return "", ErrNoPrincipal
	}
	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute
	claims := PrincipalClaims{
		Principal: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   principal,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}
	return signed, nil
}

// ParsePrincipalToken checks signature, issuer and expiry. Tokens minted
// without the principal claim fall back to the subject.
func ParsePrincipalToken(cfg config.JWTConfig, raw string) (*PrincipalClaims, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	secret := []byte(cfg.Secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	claims := new(PrincipalClaims)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return secret, nil }); err != nil {
		return nil, err
	}
	if claims.Principal = strings.TrimSpace(claims.Principal); claims.Principal == "" {
		claims.Principal = strings.TrimSpace(claims.Subject)
	}
	if claims.Principal == "" {
		return nil, ErrNoPrincipal
	}
	return claims, nil
}
