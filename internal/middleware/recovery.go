package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500レスポンスを返すミドルウェアを生成する。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					attrs := []any{
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					}
					if claims, err := PrincipalFromContext(r.Context()); err == nil {
						attrs = append(attrs, slog.String("user_id", claims.UserID))
					}
					slog.Error("panic recovered", attrs...)
					writeInternalServerError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
