// Package todo はTodo管理のドメインロジックを提供する。
// 全操作は呼び出しユーザーの所有スコープに限定され、
// 他ユーザーのTodoは「存在しない」ものとして扱う。
package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service はTodo CRUDのサービス層。
type Service struct {
	todoRepo repository.TodoRepository
}

// NewService はServiceを生成する。
func NewService(todoRepo repository.TodoRepository) *Service {
	return &Service{todoRepo: todoRepo}
}

// List は呼び出しユーザーのTodo一覧を返す。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Todo一覧の取得に失敗しました: %w", err)
	}
	return todos, nil
}

// Get は指定IDのTodoを返す。
// 見つからない場合と他ユーザー所有の場合はいずれもTodoNotFoundエラー。
func (s *Service) Get(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Todoの取得に失敗しました: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}
	return todo, nil
}

// CreateInput はTodo作成の入力。
type CreateInput struct {
	Title       string
	Description string
}

// Create は呼び出しユーザーを所有者としてTodoを作成する。
// 所有者はリクエストの認証済みクレームから自動的に決まり、入力では指定できない。
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*model.Todo, error) {
	now := time.Now()
	todo := &model.Todo{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("Todoの作成に失敗しました: %w", err)
	}

	return todo, nil
}

// UpdateInput はTodo更新の入力。
// TitleとDescriptionは空文字列を「変更なし」として扱う
// （空文字列への意図的なクリアと未指定は区別できない。仕様通りの割り切り）。
// Completedはnilを「変更なし」として扱い、falseへの戻しも表現できる。
type UpdateInput struct {
	Title       string
	Description string
	Completed   *bool
}

// Update は指定IDのTodoを部分更新する。
// 全フィールドが「変更なし」でもUpdatedAtは進む。
// 見つからない場合と他ユーザー所有の場合はいずれもTodoNotFoundエラー。
func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Todoの取得に失敗しました: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError()
	}

	if input.Title != "" {
		todo.Title = input.Title
	}
	if input.Description != "" {
		todo.Description = input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	todo.UpdatedAt = time.Now()

	updated, err := s.todoRepo.Update(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("Todoの更新に失敗しました: %w", err)
	}
	if !updated {
		// 取得後・更新前に削除されたケース
		return nil, model.NewTodoNotFoundError()
	}

	return todo, nil
}

// Delete は指定IDのTodoを削除する。
// 見つからない場合と他ユーザー所有の場合はいずれもTodoNotFoundエラー。
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	deleted, err := s.todoRepo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("Todoの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewTodoNotFoundError()
	}
	return nil
}
