package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/user"
)

func testUser() user.User {
	img := "https://cdn.example.com/a.png"
	return user.User{
		ID:    "5e3c7a90-9c5a-4a1e-8d43-1c2f95c2a111",
		Email: "a@x.com",
		Name:  "Alice",
		Image: &img,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	tok, err := issuer.AccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != testUser().ID {
		t.Fatalf("subject mismatch: %q", claims.Subject)
	}
	if claims.Email != "a@x.com" || claims.Name != "Alice" || claims.Image == "" {
		t.Fatalf("claims not carried: %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	refresh, err := issuer.RefreshToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := issuer.VerifyRefresh(refresh); err != nil {
		t.Fatalf("refresh should verify against refresh secret: %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	tok, err := issuer.AccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := issuer.VerifyAccess(tampered); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for tampered token, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", -time.Minute, 7*24*time.Hour)

	tok, err := issuer.AccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.VerifyAccess(tok); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}
