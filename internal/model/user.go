// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// EmailとUsernameはそれぞれグローバルに一意。
// PasswordHashはbcryptハッシュのみを保持し、平文は一切保存しない。
type User struct {
	ID           string
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenClaims は署名付きトークンに載せる最小限のアイデンティティ情報。
// サーバー側にセッションは永続化せず、このトリプルだけでユーザーを特定する。
// 認証ゲートはトリプル（UserID・Email・Username）が現在のユーザーと
// 完全一致する場合のみトークンを受理する。発行後にEmailやUsernameが
// 変更された場合、変更前のトークンは無効になる。
type TokenClaims struct {
	UserID   string
	Email    string
	Username string
}

// IsZero はクレームが空値かどうかを返す。
func (c TokenClaims) IsZero() bool {
	return c.UserID == "" && c.Email == "" && c.Username == ""
}
