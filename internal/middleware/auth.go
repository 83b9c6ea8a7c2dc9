// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/model"
)

// TokenCookieName は署名付きトークンを格納するCookie名。
const TokenCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストに認証済みクレームを格納するためのキー。
var principalContextKey = contextKey("principal")

// TokenResolver はトークンの検証とユーザー再解決のインターフェース。
// auth.Service.ResolveTokenの部分集合として定義する。
type TokenResolver interface {
	// ResolveToken はトークンを検証し、クレームのトリプルが現存する
	// ユーザーと一致することを確認する。
	ResolveToken(ctx context.Context, tokenStr string) (model.TokenClaims, error)
}

// AuthFailureRecorder は認証失敗のメトリクス記録インターフェース。
// metrics.Collectorが満たす。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// NewAuthMiddleware はCookieから署名付きトークンを読み取り、
// 検証・再解決するミドルウェアを返す。
// Cookieの不在・署名不一致・トリプル不一致はいずれも401 Unauthorizedを返す
// （署名エラーだけ500にしない。クライアントから見た失敗理由は区別しない）。
// 成功時は認証済みクレームをリクエストコンテキストに注入する。
// recorderがnilでない場合、失敗を理由付きで記録する。
func NewAuthMiddleware(resolver TokenResolver, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	recordFailure := func(reason string) {
		if recorder != nil {
			recorder.RecordAuthFailure(reason)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookieからトークンを取得
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil || cookie.Value == "" {
				recordFailure("missing_cookie")
				writeUnauthorized(w)
				return
			}

			// 2. 署名検証とトリプルの再解決
			claims, err := resolver.ResolveToken(r.Context(), cookie.Value)
			if err != nil {
				var apiErr *model.APIError
				if !errors.As(err, &apiErr) {
					// データストア障害など想定外のエラーはログに残す
					slog.Error("failed to resolve token",
						slog.String("error", err.Error()),
					)
				}
				recordFailure("invalid_token")
				writeUnauthorized(w)
				return
			}

			// 3. 認証済みクレームをコンテキストに注入
			ctx := context.WithValue(r.Context(), principalContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized は401の統一エラーレスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// PrincipalFromContext はリクエストコンテキストから認証済みクレームを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func PrincipalFromContext(ctx context.Context) (model.TokenClaims, error) {
	claims, ok := ctx.Value(principalContextKey).(model.TokenClaims)
	if !ok || claims.UserID == "" {
		return model.TokenClaims{}, fmt.Errorf("principal not found in context")
	}
	return claims, nil
}

// ContextWithPrincipal はコンテキストに認証済みクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, claims model.TokenClaims) context.Context {
	return context.WithValue(ctx, principalContextKey, claims)
}
