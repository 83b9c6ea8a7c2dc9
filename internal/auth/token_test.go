package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

func TestNewTokenService_EmptySecret_ReturnsError(t *testing.T) {
	_, err := NewTokenService("")
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenService_IssueAndVerify_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	claims := model.TokenClaims{
		UserID:   "user-1",
		Email:    "taro@example.com",
		Username: "taro",
	}

	token, err := svc.Issue(claims)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != claims {
		t.Errorf("Verify() = %+v, want %+v", got, claims)
	}
}

func TestTokenService_Issue_EmptyUserID_ReturnsError(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	_, err = svc.Issue(model.TokenClaims{Email: "taro@example.com"})
	if !errors.Is(err, ErrNilClaims) {
		t.Errorf("Issue() error = %v, want ErrNilClaims", err)
	}
}

func TestTokenService_Verify_WrongSecret_ReturnsError(t *testing.T) {
	issuer, err := NewTokenService("secret-a")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	verifier, err := NewTokenService("secret-b")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := issuer.Issue(model.TokenClaims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Verify_MalformedToken_ReturnsError(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(tokenStr); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tokenStr, err)
		}
	}
}

func TestTokenService_Verify_TamperedPayload_ReturnsError(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Issue(model.TokenClaims{UserID: "user-1", Username: "taro"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// ペイロード部を別トークンのものに差し替える
	other, err := svc.Issue(model.TokenClaims{UserID: "user-2", Username: "jiro"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	if len(parts) != 3 || len(otherParts) != 3 {
		t.Fatal("expected JWT format with 3 segments")
	}
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken for tampered payload", err)
	}
}

func TestTokenService_Verify_UnsignedAlgorithmRejected(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	// alg=noneの未署名トークン（header: {"alg":"none","typ":"JWT"}）
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjoidXNlci0xIn0."

	if _, err := svc.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken for alg=none", err)
	}
}
