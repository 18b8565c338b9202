package middleware

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/transport/http/httperr"
)

// RequireRoles пропускает запрос только при роли из списка allowed.
//
// Ставится строго после Authenticate: отсутствие claims в контексте
// означает ошибку порядка мидлваров и отвечает 401/NO_TOKEN, а не 500,
// чтобы не раскрывать устройство цепочки.
//
// Ответ 403 перечисляет разрешённые роли: это публичная часть контракта
// маршрута, и фронт показывает её пользователю как подсказку.
func RequireRoles(allowed ...models.Role) Middleware {
	allowedSet := make(map[models.Role]struct{}, len(allowed))
	names := make([]string, len(allowed))
	for i, role := range allowed {
		allowedSet[role] = struct{}{}
		names[i] = string(role)
	}

	forbidden := httperr.WithMessage(httperr.ErrForbidden,
		"this resource requires one of the following roles: "+strings.Join(names, ", "))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				httperr.WriteError(w, r, httperr.ErrNoToken)
				return
			}

			if _, ok := allowedSet[claims.Role]; !ok {
				httperr.WriteError(w, r, forbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
