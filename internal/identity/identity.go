// Package identity resolves the acting player from a request. Issuing
// credentials is left to the surrounding platform.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned when no player identity can be established.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver establishes the username behind a request or a bare token.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
	ResolveToken(token string) (string, error)
}

// HeaderResolver trusts a username header set by an upstream proxy.
// Intended for local play and trusted deployments.
type HeaderResolver struct {
	Header string
}

func (h HeaderResolver) Resolve(r *http.Request) (string, error) {
	return h.ResolveToken(r.Header.Get(h.Header))
}

// ResolveToken treats the token itself as the username.
func (h HeaderResolver) ResolveToken(token string) (string, error) {
	name := strings.TrimSpace(token)
	if name == "" {
		return "", ErrUnauthenticated
	}
	return name, nil
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTResolver verifies HS256 bearer tokens. The username claim is preferred,
// falling back to the subject.
type JWTResolver struct {
	Secret []byte
	Issuer string
	Now    func() time.Time
}

// NewJWTResolver creates a JWTResolver.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{Secret: []byte(secret), Issuer: issuer, Now: time.Now}
}

func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return "", ErrUnauthenticated
	}
	return j.ResolveToken(token)
}

func (j *JWTResolver) ResolveToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	if j.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(j.Now))
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	name := strings.TrimSpace(parsed.Username)
	if name == "" {
		name = strings.TrimSpace(parsed.Subject)
	}
	if name == "" {
		return "", fmt.Errorf("%w: token has no username", ErrUnauthenticated)
	}
	return name, nil
}

// Sign issues a token for username. It exists for tests and local tooling.
func (j *JWTResolver) Sign(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.Secret)
}
