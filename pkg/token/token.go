package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the resolved profile the auth collaborator embeds in a token.
// The classroom core only ever reads the role and the display name.
type Identity struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName returns the name used for chat attribution.
func (id Identity) DisplayName() string {
	if id.LastName == "" {
		return id.FirstName
	}
	return id.FirstName + " " + id.LastName
}

// Claims represents the JWT claims minted by the auth collaborator.
type Claims struct {
	jwt.RegisteredClaims
	Identity
}

// Verifier validates identity tokens. The service never mints tokens;
// authentication lives entirely with the external auth collaborator.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for HMAC-signed identity tokens.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token, returning the embedded identity.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &claims.Identity, nil
}
