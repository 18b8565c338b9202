package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — запись refresh-токена для управления сессиями.
//
// В БД хранится только одностороннее хэш-представление токена (TokenHash);
// «сырое» значение клиент видит ровно один раз — в момент выпуска.
// У одного пользователя может быть несколько активных записей
// (несколько устройств/сессий).
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired сообщает, истёк ли токен на момент now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
