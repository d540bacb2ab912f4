// Package identity reads who a bearer token was issued to, without verifying
// it. The result is metadata used to classify meeting attendees and must never
// be used to authorize anything.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guilherme-santos/calmeetings/internal"
)

// emailClaims are looked up in order, the first non-empty one wins.
var emailClaims = []string{"email", "unique_name", "upn"}

type Identity struct {
	Email  string
	Domain string
}

// HasDomain reports whether a domain could be derived from the token.
func (i Identity) HasDomain() bool {
	return i.Domain != ""
}

// FromToken decodes the claims of token without checking its signature. Tokens
// that are not JWTs return a *internal.TokenDecodeError; callers are expected
// to carry on with an empty Identity.
func FromToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims)
	if err != nil {
		return Identity{}, &internal.TokenDecodeError{Err: err}
	}

	email := pickString(claims, emailClaims...)
	return Identity{
		Email:  email,
		Domain: Domain(email),
	}, nil
}

// Domain returns the lower-cased part of email after the last "@", or an
// empty string when there is none.
func Domain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

func pickString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := claims[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
