// service содержит бизнес-логику ядра аутентификации job-board:
// регистрацию/вход пользователей, выпуск/проверку/ротацию токенов
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются наверх и маппятся HTTP-слоем на статус и стабильный
//     машинный код (см. transport/http/httperr).
package service

import (
	"errors"

	"github.com/pribylovaa/go-job-board/internal/cache"
	"github.com/pribylovaa/go-job-board/internal/config"
	"github.com/pribylovaa/go-job-board/internal/storage"
)

var (
	// ErrInvalidCredentials — пара email/пароль неверна или пользователь
	// не найден. Оба случая сознательно неразличимы для клиента
	// (защита от перечисления аккаунтов). HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountSuspended — вход в неактивную учётную запись. HTTP 403.
	ErrAccountSuspended = errors.New("account is not active")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidToken — access-токен некорректен по формату/подписи. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия access-токена истёк. HTTP 401;
	// клиенты используют этот код как сигнал к refresh.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidRefreshToken — refresh-токен не прошёл проверку
	// подписи/формата. HTTP 401.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenNotFound — ни одна из хранимых записей пользователя
	// не соответствует предъявленному токену: ротация уже состоялась,
	// был logout либо запись вычищена. HTTP 401.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrRefreshTokenExpired — подходящая запись найдена, но просрочена;
	// запись удаляется попутно (ленивая очистка). HTTP 401.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrUserNotFound — пользователь с таким ID отсутствует. HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль короче минимально допустимого. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrInvalidRole — роль неизвестна или недоступна для самостоятельной
	// регистрации (SUPER_ADMIN заводится только сидом). HTTP 400.
	ErrInvalidRole = errors.New("invalid role")

	// ErrProfileMismatch — вариант профиля не соответствует заявленной роли.
	// HTTP 400.
	ErrProfileMismatch = errors.New("profile does not match role")
)

// Service описывает бизнес-логику ядра аутентификации.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}
