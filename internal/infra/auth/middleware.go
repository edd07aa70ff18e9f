package auth

import (
	"context"
	"net/http"

	"github.com/m0rozov/phishsight/internal/domain"
	"go.uber.org/zap"
)

// ScopeAdmin открывает админские ручки консоли.
const ScopeAdmin = "admin"

// TokenValidator — интерфейс проверки токена для HTTP-слоя
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.CustomClaims, error)
}

type ctxKey int

const (
	ctxKeyUsername ctxKey = iota
	ctxKeyScopes
)

// NewMiddleware проверяет Authorization и прокидывает клеймы в контекст.
func NewMiddleware(v TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := v.VerifyToken(authHeader)
			if err != nil {
				logger.Warn("auth failure", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Прокидываем данные в контекст
			ctx := context.WithValue(r.Context(), ctxKeyUsername, claims.Username)
			ctx = context.WithValue(ctx, ctxKeyScopes, claims.Scopes)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope пускает дальше только при наличии нужного scope в токене.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ScopesFromContext(r.Context())[scope] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext достает имя пользователя, положенное миддлварью.
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(ctxKeyUsername).(string)
	return u
}

// ScopesFromContext достает scope текущего токена.
func ScopesFromContext(ctx context.Context) map[string]bool {
	s, _ := ctx.Value(ctxKeyScopes).(map[string]bool)
	return s
}

// ContextWithIdentity — хелпер для тестов хендлеров.
func ContextWithIdentity(ctx context.Context, username string, scopes map[string]bool) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUsername, username)
	return context.WithValue(ctx, ctxKeyScopes, scopes)
}
