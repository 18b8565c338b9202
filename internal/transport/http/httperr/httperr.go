// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: док-комментарии к ошибкам пакета service.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-job-board/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Коды middleware-слоя, у которых нет сервисной ошибки-прообраза.
// Объявлены здесь, чтобы хендлеры и middleware писали один формат.
var (
	// ErrNoToken — запрос к защищённому маршруту без токена.
	ErrNoToken = errors.New("no token")
	// ErrForbidden — роль аутентифицированного пользователя не входит
	// в список разрешённых для маршрута.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest — синтаксически некорректное тело/параметры запроса.
	ErrBadRequest = errors.New("bad request")
)

// withMessage несёт собственное безопасное сообщение поверх базовой ошибки.
// Статус и код берутся из обёрнутой ошибки через errors.Is.
type withMessage struct {
	err error
	msg string
}

func (e *withMessage) Error() string { return e.msg }

func (e *withMessage) Unwrap() error { return e.err }

// WithMessage возвращает ошибку с тем же статусом/кодом, что и err,
// но с заданным сообщением в ответе. Сообщение уходит клиенту,
// поэтому оно обязано быть безопасным (без внутренних деталей).
func WithMessage(err error, msg string) error {
	return &withMessage{err: err, msg: msg}
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус
// и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/AUTH_FAILED,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - нераспознанная ошибка - 500/AUTH_FAILED (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := base(err)

	// Явно заданное сообщение важнее табличного.
	var wm *withMessage
	if errors.As(err, &wm) {
		msg = wm.msg
	}

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров и middleware.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — базовый маппинг service -> HTTP/FE-код/сообщение.
//
// Таблица учитывает контракт сервисного слоя:
//   - недоступность email и гонка регистраций -> 409 EMAIL_IN_USE;
//   - все отказы логина (нет пользователя / не тот пароль) -> единый
//     401 INVALID_CREDENTIALS, чтобы ответ не раскрывал, занят ли email;
//   - приостановленный аккаунт -> 403 ACCOUNT_SUSPENDED;
//   - отказы refresh -> 401 (клиент должен заново пройти логин);
//   - access-токен: нет/просрочен/битый -> 401, сбой проверки -> 500.
func base(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_IN_USE", "email is already in use"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	case errors.Is(err, service.ErrAccountSuspended):
		return http.StatusForbidden, "ACCOUNT_SUSPENDED", "account is suspended"
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "invalid email"
	case errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "password is required"
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "password is too short"
	case errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "invalid role"
	case errors.Is(err, service.ErrProfileMismatch):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "profile does not match role"
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "invalid refresh token"
	case errors.Is(err, service.ErrRefreshTokenNotFound):
		return http.StatusUnauthorized, "REFRESH_TOKEN_NOT_FOUND", "refresh token is revoked"
	case errors.Is(err, service.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "refresh token has expired"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "TOKEN_INVALID", "invalid token"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "NOT_FOUND", "user not found"
	case errors.Is(err, ErrNoToken):
		return http.StatusUnauthorized, "NO_TOKEN", "authentication required"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "access denied"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body"
	default:
		return http.StatusInternalServerError, "AUTH_FAILED", "internal error"
	}
}
