// storage определяет контракты доступа к БД для job-board.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-job-board/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями и их профилями.
type UserStorage interface {
	// CreateUser создаёт пользователя и его ролевой профиль атомарно:
	// либо сохраняются обе записи, либо ни одной.
	CreateUser(ctx context.Context, user *models.User, profile models.ProfileInput) error
	// UserByEmail находит пользователя по нормализованному email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
// Бизнес-валидации здесь нет — она живёт в service.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новую запись refresh-токена.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokensByUser возвращает все записи пользователя,
	// новые первыми (по created_at).
	RefreshTokensByUser(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error)
	// DeleteRefreshToken удаляет запись по ID.
	// Если запись уже удалена (ротация/выход) — ErrNotFound; на этом
	// строится защита от повторного использования токена.
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error
	// RotateRefreshToken атомарно удаляет старую запись и сохраняет новую
	// в одной транзакции; ErrNotFound, если старая запись уже исчезла.
	RotateRefreshToken(ctx context.Context, oldID uuid.UUID, next *models.RefreshToken) error
	// DeleteAllRefreshTokensByUser удаляет все записи пользователя
	// («выйти везде»).
	DeleteAllRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error
	// DeleteExpiredTokens удаляет все просроченные записи
	// и возвращает количество удалённых.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	Close()
}
