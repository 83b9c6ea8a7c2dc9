// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todoman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByTriple はID・メールアドレス・ユーザー名の3条件全てに一致する
	// ユーザーを検索する。認証ゲートのトークン再解決に使用する。
	// 見つからない場合はnilを返す。
	FindByTriple(ctx context.Context, id, email, username string) (*model.User, error)

	// List は全ユーザーを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	// email/usernameの一意制約違反はIsUniqueViolationで判定できるエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザー情報を全フィールド上書きで更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有するTodoはCASCADE削除される。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// TodoRepository はTodoデータの永続化インターフェース。
// 全ての読み書きは所有者スコープで行い、他ユーザーのTodoは「存在しない」扱いになる。
type TodoRepository interface {
	// FindByIDAndOwner は指定IDかつ指定所有者のTodoを取得する。
	// 見つからない場合（他ユーザー所有を含む）はnilを返す。
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Todo, error)

	// ListByOwner は指定所有者のTodo一覧を作成日時昇順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)

	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// Update は指定所有者のTodoを上書き更新する。
	// 対象が存在しない場合（他ユーザー所有を含む）はfalseを返す。
	// 所有者の付け替えは行わない。
	Update(ctx context.Context, todo *model.Todo) (bool, error)

	// DeleteByIDAndOwner は指定IDかつ指定所有者のTodoを削除する。
	// 対象が存在しない場合（他ユーザー所有を含む）はfalseを返す。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}
