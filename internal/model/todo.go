package model

import "time"

// Todo はユーザーが所有するタスクを表す。
// OwnerIDは作成時に確定し、以降変更されない。
// 所有ユーザーが削除された場合はCASCADE削除される。
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
