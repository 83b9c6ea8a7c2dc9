// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service はユーザーCRUDのサービス層。
// 新規作成時の重複チェックとハッシュ化は登録フローと同じ規則に従う。
type Service struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher *auth.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// List は全ユーザーを返す。パスワードハッシュは呼び出し側で除外すること
// （ハンドラーのレスポンス型に含まれない）。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// Get は指定IDのユーザーを返す。見つからない場合はUserNotFoundエラー。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// CreateInput はユーザー作成の入力。
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Username string
}

// Create はユーザーを作成する。
// メールアドレスとユーザー名の重複チェックは登録フローと同一の規則
// （独立した2回の検索、email優先で報告）で行う。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.User, error) {
	byEmail, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複チェックに失敗しました: %w", err)
	}
	if byEmail != nil {
		return nil, model.NewEmailTakenError()
	}

	byUsername, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー名の重複チェックに失敗しました: %w", err)
	}
	if byUsername != nil {
		return nil, model.NewUsernameTakenError()
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			// 存在チェックとINSERTの間で並行作成が先行したケース
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user created",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// UpdateInput はユーザー更新の入力。
// 空文字列のフィールドは「変更なし」として扱う。
// 空文字列への意図的なクリアと未指定は区別できない（仕様通りの割り切り）。
type UpdateInput struct {
	Name     string
	Email    string
	Password string
	Username string
}

// Update はユーザー情報を部分更新する。
// 見つからない場合はUserNotFoundエラー。
// EmailまたはUsernameの変更時は自分以外との重複をチェックする。
// Passwordが指定された場合は再ハッシュ化する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if input.Email != "" {
		byEmail, err := s.userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("メールアドレスの重複チェックに失敗しました: %w", err)
		}
		if byEmail != nil && byEmail.ID != id {
			return nil, model.NewEmailTakenError()
		}
		user.Email = input.Email
	}

	if input.Username != "" {
		byUsername, err := s.userRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			return nil, fmt.Errorf("ユーザー名の重複チェックに失敗しました: %w", err)
		}
		if byUsername != nil && byUsername.ID != id {
			return nil, model.NewUsernameTakenError()
		}
		user.Username = input.Username
	}

	if input.Name != "" {
		user.Name = input.Name
	}

	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	return user, nil
}

// Delete は指定IDのユーザーを削除する。所有するTodoはCASCADE削除される。
// 見つからない場合はUserNotFoundエラー。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.userRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewUserNotFoundError()
	}

	slog.Info("user deleted",
		slog.String("user_id", id),
	)

	return nil
}
