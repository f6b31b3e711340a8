package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-1", "rider@wrenchmark.app", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" || claims.Email != "rider@wrenchmark.app" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateJWTRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := GenerateJWT("user-1", "", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateJWT(expired); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	t.Setenv("JWT_SECRET", "other-secret")
	valid, _ := GenerateJWT("user-1", "", time.Hour)
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := ValidateJWT(valid); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := map[string]bool{
		"":             false,
		"Bearer":       false,
		"Bearer  ":     false,
		"Basic abc":    false,
		"Bearer abc.d": true,
	}
	for header, ok := range cases {
		_, err := ExtractTokenFromHeader(header)
		if (err == nil) != ok {
			t.Errorf("%q: err = %v, want ok=%v", header, err, ok)
		}
	}
}
