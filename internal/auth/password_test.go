package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash_ProducesBcryptHash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Errorf("expected bcrypt hash prefix, got %q", hash)
	}
	if hash == "secret-password" {
		t.Error("hash must not equal the plaintext")
	}
}

func TestPasswordHasher_Hash_SamePlaintextDifferentHashes(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	h1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// ソルトが毎回ランダム生成されるため、同じ平文でもハッシュは異なる
	if h1 == h2 {
		t.Error("expected different hashes for the same plaintext")
	}
}

func TestPasswordHasher_Verify_CorrectPassword(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !hasher.Verify("correct-password", hash) {
		t.Error("Verify() should return true for the correct password")
	}
}

func TestPasswordHasher_Verify_WrongPassword(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() should return false for a wrong password")
	}
}

func TestPasswordHasher_Verify_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher()

	// 不正な形式のハッシュはエラーではなく不一致として扱う
	if hasher.Verify("any-password", "not-a-bcrypt-hash") {
		t.Error("Verify() should return false for a malformed hash")
	}
	if hasher.Verify("any-password", "") {
		t.Error("Verify() should return false for an empty hash")
	}
}

func TestPasswordHasher_DifferentCostHashesStillVerify(t *testing.T) {
	// コストはハッシュ文字列に埋め込まれるため、
	// 生成時と異なるコスト設定のハッシャーでも検証できる
	low := NewPasswordHasherWithCost(bcrypt.MinCost)
	standard := NewPasswordHasher()

	hash, err := low.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !standard.Verify("password123", hash) {
		t.Error("Verify() should succeed regardless of the hasher's configured cost")
	}
}
