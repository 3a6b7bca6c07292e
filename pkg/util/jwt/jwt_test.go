package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, expiresAt *time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "agent"}
	if expiresAt != nil {
		claims["exp"] = expiresAt.Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("local-test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestExpired(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Hour)
	if !Expired(mintToken(t, &past), now) {
		t.Fatal("token expired an hour ago reported as live")
	}

	future := now.Add(time.Hour)
	if Expired(mintToken(t, &future), now) {
		t.Fatal("token valid for another hour reported as expired")
	}
}

// Tokens without an exp claim, or strings that do not parse at all, are left
// for the server to judge.
func TestExpiredInconclusiveCases(t *testing.T) {
	now := time.Now()

	if Expired(mintToken(t, nil), now) {
		t.Fatal("token without exp reported as expired")
	}
	if Expired("not-a-jwt", now) {
		t.Fatal("unparseable token reported as expired")
	}
	if Expired("", now) {
		t.Fatal("empty token reported as expired")
	}
}
