package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidCursor — битый/чужой page_token (курсор пагинации).
var ErrInvalidCursor = errors.New("invalid cursor")

// ListOptions — параметры выборки списков доменных сущностей.
//
// Особенности:
//   - при Limit == 0 применяется серверный default;
//   - PageToken == "" -> первая страница;
//   - Filters — необязательные равенства поле=значение, понятные
//     конкретному хранилищу.
type ListOptions struct {
	Limit     int32
	PageToken string
	Filters   map[string]string
}

// Page — страница результатов со ссылкой на продолжение.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// OwnedResourceStorage — единственный контракт хранилища, который ресурсные
// модули платформы (офферы, заявки, программы и т.д.) получают от ядра.
// Вместе с мидлварами Authenticate/RequireRoles он закрывает их потребности:
// выборка с фильтрами/пагинацией и проверка владельца.
type OwnedResourceStorage[T any] interface {
	// ListByOwner возвращает страницу сущностей владельца.
	// При некорректном PageToken — ErrInvalidCursor.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListOptions) (*Page[T], error)
	// ByID возвращает сущность по ID; ErrNotFound, если записи нет.
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	// OwnerOf возвращает владельца сущности для authorize-by-owner.
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
