package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-job-board/internal/models"
	"github.com/pribylovaa/go-job-board/internal/transport/http/middleware"
)

// Имена кук сессии. Имя куки access-токена задаёт middleware:
// он же читает её на защищённых маршрутах.
const (
	accessTokenCookie  = middleware.AccessTokenCookie
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies выставляет httpOnly-куки с парой токенов.
// Secure включается только в prod: локальная разработка ходит по http.
// MaxAge совпадает с TTL соответствующего токена, чтобы браузер
// сам забывал куку одновременно с истечением срока действия.
func (h *Handlers) setAuthCookies(w http.ResponseWriter, pair *models.TokenPair) {
	secure := h.cfg.Env == "prod"

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies сбрасывает куки сессии (MaxAge<0 удаляет куку).
// Атрибуты повторяют setAuthCookies, иначе браузер не сопоставит куки.
func (h *Handlers) clearAuthCookies(w http.ResponseWriter) {
	secure := h.cfg.Env == "prod"

	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
