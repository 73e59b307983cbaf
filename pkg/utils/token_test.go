package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTripCarriesRole(t *testing.T) {
	token, err := GenerateTokenWithSecret("s3cret", "trailnote", time.Hour, 42, "Reviewer")
	if err != nil {
		t.Fatalf("GenerateTokenWithSecret() error = %v", err)
	}

	claims, err := ParseTokenWithSecret("s3cret", token)
	if err != nil {
		t.Fatalf("ParseTokenWithSecret() error = %v", err)
	}
	if claims.UserID != 42 || claims.Role != "Reviewer" || claims.Subject != "42" {
		t.Fatalf("claims = %+v, want user 42 role Reviewer", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := GenerateTokenWithSecret("s3cret", "trailnote", time.Hour, 1, "User")
	if err != nil {
		t.Fatalf("GenerateTokenWithSecret() error = %v", err)
	}
	expired, _ := GenerateTokenWithSecret("s3cret", "trailnote", -time.Minute, 1, "User")
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("s3cret"))
	wrongSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "2", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))

	tests := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"wrong secret", "other", valid, ErrInvalidToken},
		{"expired", "s3cret", expired, ErrExpiredToken},
		{"other algorithm", "s3cret", hs512, ErrInvalidToken},
		{"missing expiry", "s3cret", noExpiry, ErrInvalidToken},
		{"subject mismatch", "s3cret", wrongSubject, ErrInvalidToken},
		{"garbage", "s3cret", "a.b.c", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTokenWithSecret(tt.secret, tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
