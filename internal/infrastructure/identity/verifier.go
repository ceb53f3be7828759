// Package identity integrates the hosted investor identity provider (Clerk).
package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/summitcrest/realty/internal/config"
)

var (
	// ErrNotConfigured means no verification key was supplied
	ErrNotConfigured = errors.New("identity provider is not configured")
	// ErrInvalidSession covers every session token that fails verification
	ErrInvalidSession = errors.New("invalid session token")
)

// clockSkew tolerated on exp/nbf, matching the provider's own SDKs
const clockSkew = 5 * time.Second

// Claims are the session token claims the portal relies on
type Claims struct {
	SessionID       string `json:"sid"`
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks networkless session tokens against the instance's PEM public key
type Verifier struct {
	key               *rsa.PublicKey
	authorizedParties map[string]struct{}
	now               func() time.Time
}

// NewVerifier parses the PEM key from configuration. An empty key yields a
// verifier that rejects every token with ErrNotConfigured.
func NewVerifier(cfg config.ClerkConfig) (*Verifier, error) {
	v := &Verifier{now: time.Now, authorizedParties: make(map[string]struct{})}
	for _, p := range cfg.AuthorizedParties {
		v.authorizedParties[strings.TrimRight(p, "/")] = struct{}{}
	}
	if cfg.JWTKey == "" {
		return v, nil
	}

	// keys pasted into env files often carry literal \n sequences
	pemKey := strings.ReplaceAll(cfg.JWTKey, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse clerk jwt key: %w", err)
	}
	v.key = key
	return v, nil
}

// Configured reports whether tokens can be verified
func (v *Verifier) Configured() bool {
	return v.key != nil
}

// Verify validates an RS256 session token and returns its claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.key == nil {
		return nil, ErrNotConfigured
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" {
		if _, ok := v.authorizedParties[strings.TrimRight(claims.AuthorizedParty, "/")]; !ok {
			return nil, ErrInvalidSession
		}
	}
	return claims, nil
}
