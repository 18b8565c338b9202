package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/transport/http/httperr"
)

// AccessTokenCookie — имя куки с access-токеном (для браузерных клиентов).
const AccessTokenCookie = "accessToken"

// TokenValidator проверяет подпись/срок access-токена и возвращает claims.
// В проде это *service.Service.
type TokenValidator interface {
	ValidateAccessToken(token string) (models.AuthClaims, error)
}

type ctxKey int

const ctxClaims ctxKey = iota

// ClaimsFrom достаёт claims аутентифицированного пользователя из контекста.
// ok == false на маршрутах без Authenticate (или если OptionalAuthenticate
// не нашёл токен).
func ClaimsFrom(ctx context.Context) (models.AuthClaims, bool) {
	claims, ok := ctx.Value(ctxClaims).(models.AuthClaims)
	return claims, ok
}

// Authenticate требует валидный access-токен и кладёт claims в контекст.
//
// Источники токена по убыванию приоритета:
//  1. заголовок Authorization: Bearer <token> (программные клиенты);
//  2. кука accessToken (браузер).
//
// Ответы: нет токена -> 401/NO_TOKEN, просрочен -> 401/TOKEN_EXPIRED,
// битый -> 401/TOKEN_INVALID, прочий сбой -> 500/AUTH_FAILED.
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				httperr.WriteError(w, r, httperr.ErrNoToken)
				return
			}

			claims, err := v.ValidateAccessToken(token)
			if err != nil {
				// httperr различает TOKEN_EXPIRED / TOKEN_INVALID / AUTH_FAILED.
				httperr.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate кладёт claims в контекст, если валидный токен есть,
// и молча пропускает запрос дальше, если его нет или он не прошёл проверку.
// Для маршрутов с публичным и персонализированным вариантами ответа.
func OptionalAuthenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.ValidateAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken — Bearer из Authorization, затем кука accessToken.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
			if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
				return token
			}
		}
	}

	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	return ""
}
