package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

const issuer = "parley"

// Claims are carried in every session token.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"preferred_username"`
	Roles    []string `json:"roles"`
}

// UserID returns the subject of the token.
func (c Claims) UserID() string {
	return c.Subject
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner returns a Signer using key. An empty key is rejected.
func NewSigner(key string, ttl time.Duration) (*Signer, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	return &Signer{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the user.
func (s *Signer) Issue(userID, username string, roles []string) (string, error) {
	now := s.now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Username: username,
		Roles:    roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return token, nil
}

// ParseClaims verifies the token signature and expiry and returns its claims.
func (s *Signer) ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		if _, ok := err.(*jwt.ValidationError); ok && t == nil {
			return claims, ErrInvalidClaims
		}
		return claims, ErrInvalidJWT
	}
	if claims.Subject == "" {
		return claims, ErrInvalidClaims
	}
	return claims, nil
}
