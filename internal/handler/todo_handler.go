package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/todo"
)

// TodoServiceInterface はTodoハンドラーが必要とするサービスインターフェース。
// 全操作は所有者スコープで行われる。
type TodoServiceInterface interface {
	List(ctx context.Context, ownerID string) ([]*model.Todo, error)
	Get(ctx context.Context, id, ownerID string) (*model.Todo, error)
	Create(ctx context.Context, ownerID string, input todo.CreateInput) (*model.Todo, error)
	Update(ctx context.Context, id, ownerID string, input todo.UpdateInput) (*model.Todo, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// TodoHandler はTodo管理のHTTPハンドラー。
type TodoHandler struct {
	service TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// createTodoRequest はTodo作成リクエストのボディ。
type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTodoRequest はTodo更新リクエストのボディ。
// 省略されたフィールドは変更しない。completedは*boolでfalseへの戻しを表現する。
type updateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   *bool  `json:"completed"`
}

// todoResponse はTodoのAPIレスポンス。所有者IDは返さない。
type todoResponse struct {
	TodoID      string    `json:"todo_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTodos は呼び出しユーザーのTodo一覧を取得する。
// GET /api/todo
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	claims, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	todos, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: toTodoResponses(todos)})
}

// GetTodo はTodo詳細を取得する。
// GET /api/todo/:id
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	claims, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	todoID := chi.URLParam(r, "id")

	t, err := h.service.Get(r.Context(), todoID, claims.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: toTodoResponse(t)})
}

// CreateTodo は呼び出しユーザーを所有者としてTodoを作成する。
// POST /api/todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	claims, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("titleは必須です"))
		return
	}

	t, err := h.service.Create(r.Context(), claims.UserID, todo.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dataResponse{Data: toTodoResponse(t)})
}

// UpdateTodo はTodoを部分更新する。
// PUT /api/todo/:id
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	claims, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	todoID := chi.URLParam(r, "id")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	t, err := h.service.Update(r.Context(), todoID, claims.UserID, todo.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: toTodoResponse(t)})
}

// DeleteTodo はTodoを削除する。
// DELETE /api/todo/:id
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	claims, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	todoID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), todoID, claims.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Todoを削除しました。",
	})
}

// --- ヘルパー関数 ---

// toTodoResponse はmodel.TodoからAPIレスポンスに変換する。
func toTodoResponse(t *model.Todo) todoResponse {
	return todoResponse{
		TodoID:      t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// toTodoResponses はTodoのスライスをAPIレスポンスに変換する。
// 空スライスはnullではなく[]としてシリアライズされるようにする。
func toTodoResponses(todos []*model.Todo) []todoResponse {
	responses := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		responses = append(responses, toTodoResponse(t))
	}
	return responses
}
