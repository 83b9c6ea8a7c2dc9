// Package auth は資格情報のハッシュ化、トークンの発行・検証、認証フローを提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultBcryptCost はbcryptのコストファクタ。
// saltRounds 10相当。コストはハッシュ文字列自体に埋め込まれるため、
// 変更しても既存ハッシュの検証は影響を受けない。
const defaultBcryptCost = 10

// PasswordHasher はパスワードの一方向ハッシュ化と照合を提供する。
// 状態を持たず、内部で生成するソルト以外の入力に対して純粋に振る舞う。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はデフォルトコストのPasswordHasherを生成する。
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: defaultBcryptCost}
}

// NewPasswordHasherWithCost は指定コストのPasswordHasherを生成する。
// テストではbcrypt.MinCostを渡して高速化する。
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードをbcryptでハッシュ化する。
// ソルトは呼び出しごとにランダム生成されるため、同じ平文でも結果は毎回異なる。
// ソルトとコストはハッシュ文字列に自己完結的に埋め込まれる。
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードが保存済みハッシュと一致するかを返す。
// ハッシュが不正な形式の場合もエラーは返さず「不一致」として扱う。
// bcryptの比較は内部で定数時間比較を行う。
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
