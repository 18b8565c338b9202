package models

import "github.com/google/uuid"

// AuthClaims — минимальное утверждение личности, зашиваемое в access- и
// refresh-токены. Поля времени (iat/exp) сюда сознательно не входят: их
// добавляет шаг подписи, поэтому при переподписи проверенного токена
// «унаследовать» старый срок действия структурно невозможно.
type AuthClaims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
