// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEmailTaken            = "EMAIL_TAKEN"
	ErrCodeUsernameTaken         = "USERNAME_TAKEN"
	ErrCodeEmailAndUsernameTaken = "EMAIL_AND_USERNAME_TAKEN"
	ErrCodeEmailNotRegistered    = "EMAIL_NOT_REGISTERED"
	ErrCodePasswordIncorrect     = "PASSWORD_INCORRECT"
	ErrCodeNotLoggedIn           = "NOT_LOGGED_IN"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInvalidToken          = "INVALID_TOKEN"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeTodoNotFound          = "TODO_NOT_FOUND"
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
)

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  "このユーザー名は既に使用されています。",
		Category: "validation",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewEmailAndUsernameTakenError はメールアドレスとユーザー名の両方が重複しているエラーを生成する。
// 両方が重複している場合はこのエラーを優先して返す。
func NewEmailAndUsernameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAndUsernameTaken,
		Message:  "このメールアドレスとユーザー名は既に登録されています。",
		Category: "validation",
		Action:   "ログインするか、別のメールアドレスとユーザー名を指定してください。",
	}
}

// NewEmailNotRegisteredError は未登録メールアドレスでのログインエラーを生成する。
func NewEmailNotRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotRegistered,
		Message:  "このメールアドレスは登録されていません。",
		Category: "auth",
		Action:   "メールアドレスを確認するか、新規登録してください。",
	}
}

// NewPasswordIncorrectError はパスワード不一致エラーを生成する。
func NewPasswordIncorrectError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordIncorrect,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewNotLoggedInError は未ログイン状態での操作エラーを生成する。
func NewNotLoggedInError() *APIError {
	return &APIError{
		Code:     ErrCodeNotLoggedIn,
		Message:  "ログインしていません。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewUnauthorizedError は認証が必要な操作への未認証アクセスエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効です。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "resource",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewTodoNotFoundError はTodo未検出エラーを生成する。
// 他ユーザーが所有するTodoへのアクセスもこのエラーになる（存在を秘匿する）。
func NewTodoNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTodoNotFound,
		Message:  "指定されたTodoが見つかりません。",
		Category: "resource",
		Action:   "TodoのIDを確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}
