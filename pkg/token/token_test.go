package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func mint(t *testing.T, secret string, identity Identity, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Identity: identity,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)
	want := Identity{UserID: "instr-01", FirstName: "Nadia", LastName: "Khan", Role: "instructor"}

	got, err := v.Verify(mint(t, testSecret, want, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if *got != want {
		t.Fatalf("identity = %+v, want %+v", *got, want)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)
	identity := Identity{UserID: "std-1", Role: "student"}

	_, err := v.Verify(mint(t, testSecret, identity, time.Now().Add(-time.Minute)))
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	identity := Identity{UserID: "std-1", Role: "student"}

	_, err := v.Verify(mint(t, "other-secret", identity, time.Now().Add(time.Hour)))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	v := NewVerifier(testSecret)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyMissingUserID(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify(mint(t, testSecret, Identity{Role: "student"}, time.Now().Add(time.Hour)))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Identity{FirstName: "Sana", LastName: "Fatima"}).DisplayName(); got != "Sana Fatima" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := (Identity{FirstName: "Instructor"}).DisplayName(); got != "Instructor" {
		t.Fatalf("DisplayName = %q", got)
	}
}
